package main

import (
	"fmt"

	"github.com/fwojciec/textract"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Jobs.DeleteJob(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", textract.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Deleted job %s\n", c.ID)
	return nil
}
