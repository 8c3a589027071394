package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanabe1478/git-shadow/internal/engine"
	"github.com/tanabe1478/git-shadow/internal/exclude"
	"github.com/tanabe1478/git-shadow/internal/oplog"
	"github.com/tanabe1478/git-shadow/internal/shadowconfig"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

var rootCmd = &cobra.Command{
	Use:           "git-shadow",
	Short:         "Keep local-only edits out of your commits",
	Long: `git-shadow lets you layer local-only edits on top of tracked files, or keep
entirely local files in your working tree, without ever recording them in a
commit. Overlays and phantoms stay live day to day; the pre-commit hook
strips them out, and the post-commit hook puts them back.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(rebaseCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(suspendCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(configCmd)
}

// newContext builds an engine.Context rooted at the current directory, with
// a rotating operation logger under the repository's shadow directory.
func newContext() (*engine.Context, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	// Discover first with a discard logger so we know where the shadow
	// directory lives before opening the real log file.
	probe, err := engine.NewContext(cwd, oplog.Discard())
	if err != nil {
		return nil, fmt.Errorf("%s: not a git repository (or any parent up to /)", cwd)
	}
	probe.Logger = oplog.New(probe.Layout.OperationsLog)
	return probe, nil
}

func newExcludeManager(c *engine.Context) *exclude.Manager {
	return exclude.New(c.Layout.ExcludePath)
}

// renderErr prints a *shadowerrors.Error in the uniform kind/resource/next
// step shape; other errors print as-is.
func renderErr(err error) error {
	if err == nil {
		return nil
	}
	if kind, ok := shadowerrors.KindOf(err); ok {
		return fmt.Errorf("[%s] %v", kind, err)
	}
	return err
}

var discardConfigWarnings = log.New(os.Stderr, "", 0)

func loadConfig(repoRoot string) shadowconfig.Config {
	cfg, err := shadowconfig.Load(repoRoot)
	if err != nil {
		discardConfigWarnings.Printf("warning: %s is malformed, using defaults: %v", shadowconfig.FileName, err)
		return shadowconfig.Default()
	}
	return cfg
}
