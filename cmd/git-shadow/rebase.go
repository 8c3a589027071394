package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanabe1478/git-shadow/internal/ops"
)

var rebaseCmd = &cobra.Command{
	Use:   "rebase [path]",
	Short: "Refresh an overlay's baseline against the current HEAD",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRebase,
}

func runRebase(cmd *cobra.Command, args []string) error {
	c, err := newContext()
	if err != nil {
		return err
	}
	reg, err := c.LoadRegistry()
	if err != nil {
		return renderErr(err)
	}

	var results []*ops.RebaseResult
	var rebaseErr error
	if len(args) == 1 {
		r, err := ops.RebaseOne(c, reg, args[0])
		rebaseErr = err
		if r != nil {
			results = []*ops.RebaseResult{r}
		}
	} else {
		results, rebaseErr = ops.RebaseAll(c, reg)
	}

	// Save whatever progress was made even if a later entry failed, per the
	// engine's own partial-completion contract for rebase.
	if err := reg.Save(); err != nil {
		return renderErr(err)
	}
	if rebaseErr != nil {
		return renderErr(rebaseErr)
	}

	conflicted := 0
	for _, r := range results {
		if r.Conflicted {
			conflicted++
			fmt.Printf("%s  [conflict markers written]\n", r.Path)
		} else {
			fmt.Printf("%s  rebased\n", r.Path)
		}
	}
	if conflicted > 0 {
		return fmt.Errorf("%d overlay(s) need conflicts resolved by hand", conflicted)
	}
	return nil
}
