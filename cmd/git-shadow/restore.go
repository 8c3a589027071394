package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanabe1478/git-shadow/internal/ops"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [path]",
	Short: "Recover from an interrupted commit cycle",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	c, err := newContext()
	if err != nil {
		return err
	}

	var pathFilter string
	if len(args) == 1 {
		pathFilter = args[0]
	}

	result, err := ops.Restore(c, pathFilter)
	if err != nil {
		return renderErr(err)
	}

	for _, p := range result.Restored {
		fmt.Printf("restored %s\n", p)
	}
	if result.LockForced {
		fmt.Println("cleared the stale commit-cycle lock")
	}
	if len(result.Restored) == 0 && !result.LockForced && len(result.Failed) == 0 {
		fmt.Println("nothing to restore")
	}
	if len(result.Failed) > 0 {
		for p, ferr := range result.Failed {
			fmt.Printf("failed to restore %s: %v\n", p, ferr)
		}
		return fmt.Errorf("%d entries could not be restored", len(result.Failed))
	}
	return nil
}
