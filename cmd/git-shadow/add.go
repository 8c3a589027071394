package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanabe1478/git-shadow/internal/ops"
	"github.com/tanabe1478/git-shadow/internal/registry"
)

var (
	addPhantom   bool
	addNoExclude bool
	addForce     bool
)

var addCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register a path as a managed overlay or phantom",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().BoolVar(&addPhantom, "phantom", false, "register an untracked file or directory instead of an overlay")
	addCmd.Flags().BoolVar(&addNoExclude, "no-exclude", false, "do not add a managed-ignore entry for a phantom")
	addCmd.Flags().BoolVar(&addForce, "force", false, "bypass the binary/size check for overlays")
}

func runAdd(cmd *cobra.Command, args []string) error {
	path := args[0]

	c, err := newContext()
	if err != nil {
		return err
	}
	reg, err := c.LoadRegistry()
	if err != nil {
		return renderErr(err)
	}
	cfg := loadConfig(c.Adapter.RepoRoot())

	if addPhantom {
		mode := registry.ExcludeNone
		if !addNoExclude && cfg.DefaultExcludeManaged {
			mode = registry.ExcludeManagedIgnore
		}
		entry, err := ops.AddPhantom(c, reg, newExcludeManager(c), path, ops.AddPhantomOptions{ExcludeMode: mode})
		if err != nil {
			return renderErr(err)
		}
		if err := reg.Save(); err != nil {
			return renderErr(err)
		}
		fmt.Printf("added phantom %s\n", entry.Path)
		return nil
	}

	entry, err := ops.AddOverlay(c, reg, path, ops.AddOverlayOptions{
		SizeLimitBytes: cfg.SizeLimitBytes,
		Force:          addForce,
	})
	if err != nil {
		return renderErr(err)
	}
	if err := reg.Save(); err != nil {
		return renderErr(err)
	}
	fmt.Printf("added overlay %s (baseline %s)\n", entry.Path, entry.BaselineCommit)
	return nil
}
