package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanabe1478/git-shadow/internal/ops"
)

var suspendCmd = &cobra.Command{
	Use:   "suspend",
	Short: "Temporarily hide all managed divergence from the working tree",
	Args:  cobra.NoArgs,
	RunE:  runSuspend,
}

func runSuspend(cmd *cobra.Command, args []string) error {
	c, err := newContext()
	if err != nil {
		return err
	}
	reg, err := c.LoadRegistry()
	if err != nil {
		return renderErr(err)
	}

	result, err := ops.Suspend(c, reg)
	if err != nil {
		return renderErr(err)
	}

	if len(result.Suspended) == 0 {
		fmt.Println("nothing to suspend")
		return nil
	}
	for _, p := range result.Suspended {
		fmt.Printf("suspended %s\n", p)
	}
	return nil
}
