package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tanabe1478/git-shadow/internal/ops"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Stop managing a path",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "skip the interactive confirmation")
}

func runRemove(cmd *cobra.Command, args []string) error {
	path := args[0]

	if !removeForce && !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("stdin is not a terminal; pass --force to remove %s non-interactively", path)
	}

	if !removeForce {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Stop managing %s?", path)).
			Description("An overlay's working-tree copy will be replaced with its baseline; a phantom is left untouched.").
			Affirmative("Remove").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	c, err := newContext()
	if err != nil {
		return err
	}
	reg, err := c.LoadRegistry()
	if err != nil {
		return renderErr(err)
	}

	if err := ops.Remove(c, reg, newExcludeManager(c), path); err != nil {
		return renderErr(err)
	}
	if err := reg.Save(); err != nil {
		return renderErr(err)
	}

	fmt.Printf("removed %s\n", path)
	return nil
}
