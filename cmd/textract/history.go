package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/textract"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := textract.JobFilter{Limit: c.Limit}
	if c.State != "" && c.State != "all" {
		state := textract.JobState(c.State)
		filter.State = &state
	}

	jobs, err := deps.Jobs.FindJobs(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", textract.ErrorMessage(err))
		return err
	}

	if len(jobs) == 0 {
		fmt.Fprintln(deps.Stdout, "No jobs found. Use 'textract extract' to run one.")
		return nil
	}

	for _, j := range jobs {
		fmt.Fprintf(deps.Stdout, "%s  %-9s  %d source(s)  %s\n",
			j.ID, j.State, j.Targets, j.CreatedAt.Local().Format(time.DateTime))
	}
	return nil
}
