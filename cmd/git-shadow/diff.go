package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/tanabe1478/git-shadow/internal/inspect"
)

var diffCmd = &cobra.Command{
	Use:   "diff [path]",
	Short: "Show the divergence between an overlay and its baseline",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	c, err := newContext()
	if err != nil {
		return err
	}
	reg, err := c.LoadRegistry()
	if err != nil {
		return renderErr(err)
	}

	var diffs []*inspect.OverlayDiff
	if len(args) == 1 {
		d, err := inspect.Diff(c, reg, args[0])
		if err != nil {
			return renderErr(err)
		}
		diffs = []*inspect.OverlayDiff{d}
	} else {
		diffs, err = inspect.DiffAll(c, reg)
		if err != nil {
			return renderErr(err)
		}
	}

	if len(diffs) == 0 {
		fmt.Println("no overlay diverges from its baseline")
		return nil
	}

	for _, d := range diffs {
		if err := renderDiff(d); err != nil {
			return err
		}
	}
	return nil
}

// renderDiff shells out to `git diff --no-index` for the actual unified
// diff text: rendering (coloring, hunk formatting) is peripheral
// presentation per spec.md §1, and git's own diff engine already does it
// better than anything this tool would reimplement.
func renderDiff(d *inspect.OverlayDiff) error {
	dir, err := os.MkdirTemp("", "git-shadow-diff-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	basePath := dir + "/baseline"
	workPath := dir + "/working"
	if err := os.WriteFile(basePath, d.Baseline, 0o600); err != nil {
		return err
	}
	if err := os.WriteFile(workPath, d.Working, 0o600); err != nil {
		return err
	}

	// git diff --no-index exits 1 when there is a difference; that is not a
	// failure worth surfacing as an error, only the rendered text matters.
	cmd := exec.Command("git", "diff", "--no-index", "--", basePath, workPath)
	out, _ := cmd.Output()
	fmt.Print(string(out))
	return nil
}
