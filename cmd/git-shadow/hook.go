package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:    "hook <pre-commit|post-commit|post-merge>",
	Short:  "Run one of the installed VCS hooks",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE:   runHook,
}

func runHook(cmd *cobra.Command, args []string) error {
	c, err := newContext()
	if err != nil {
		return err
	}

	switch args[0] {
	case "pre-commit":
		result, err := c.PreCommit()
		if err != nil {
			return renderErr(err)
		}
		for _, w := range result.Warnings {
			fmt.Println("warning:", w)
		}
		return nil

	case "post-commit":
		result, err := c.PostCommit()
		if err != nil {
			return renderErr(err)
		}
		if len(result.Failed) > 0 {
			fmt.Print(result.FailureSummary())
		}
		return nil

	case "post-merge":
		result, err := c.PostMerge()
		if err != nil {
			return renderErr(err)
		}
		for _, w := range result.Warnings() {
			fmt.Println("warning:", w)
		}
		return nil

	default:
		return fmt.Errorf("unknown hook %q", args[0])
	}
}
