package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanabe1478/git-shadow/internal/inspect"
	"github.com/tanabe1478/git-shadow/internal/registry"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of every managed entry",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := newContext()
	if err != nil {
		return err
	}
	reg, err := c.LoadRegistry()
	if err != nil {
		return renderErr(err)
	}

	s, err := inspect.BuildStatus(c, reg)
	if err != nil {
		return renderErr(err)
	}

	if s.TransactionInFlight {
		fmt.Println("a commit cycle is currently in flight")
	}
	if s.StashRemnant {
		fmt.Println("stash has remnants from an interrupted transaction; run `git-shadow restore`")
	}
	if len(s.Entries) == 0 {
		fmt.Println("nothing is managed yet")
		return nil
	}

	for _, e := range s.Entries {
		line := fmt.Sprintf("%-8s %s", e.Kind, e.Path)
		switch {
		case e.Missing:
			line += "  [missing]"
		case e.Kind == registry.TypeOverlay && e.Diverged:
			line += "  [diverged from baseline]"
		case e.Kind == registry.TypePhantom && !e.Excluded:
			line += "  [visible in status]"
		}
		fmt.Println(line)
	}
	return nil
}
