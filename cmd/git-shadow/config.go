package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanabe1478/git-shadow/internal/shadowconfig"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or initialize the per-repo configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default .git-shadow.toml to the repository root",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	c, err := newContext()
	if err != nil {
		return err
	}

	path, err := shadowconfig.WriteDefault(c.Adapter.RepoRoot())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s already exists", path)
		}
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
