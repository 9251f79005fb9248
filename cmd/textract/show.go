package main

import (
	"fmt"

	"github.com/fwojciec/textract"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	job, err := deps.Jobs.FindJobByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", textract.ErrorMessage(err))
		return err
	}

	if c.Log {
		for _, e := range job.Entries {
			fmt.Fprintln(deps.Stdout, e.String())
		}
		return nil
	}

	if job.Output == "" {
		fmt.Fprintf(deps.Stdout, "Job %s (%s) has no output.\n", job.ID, job.State)
		return nil
	}
	fmt.Fprintln(deps.Stdout, job.Output)
	return nil
}
