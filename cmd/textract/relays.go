package main

import (
	"fmt"

	"github.com/fwojciec/textract/rod"
)

// Run executes the relays command.
func (c *RelaysCmd) Run(deps *Dependencies) error {
	for i, r := range deps.Relays {
		fmt.Fprintf(deps.Stdout, "%d. %-12s %s\n", i+1, r.ID, r.Name)
	}
	fmt.Fprintf(deps.Stdout, "Optional: %s (enable with --browser)\n", rod.RelayID)
	return nil
}
