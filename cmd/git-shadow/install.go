package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the pre-commit, post-commit, and post-merge hooks",
	Args:  cobra.NoArgs,
	RunE:  runInstall,
}

const hookTemplate = `#!/bin/sh
# installed by git-shadow; do not edit by hand
git-shadow hook %s
status=$?
if [ $status -ne 0 ]; then
	exit $status
fi
if [ -x "$(dirname "$0")/%s.pre-shadow" ]; then
	exec "$(dirname "$0")/%s.pre-shadow" "$@"
fi
exit 0
`

func runInstall(cmd *cobra.Command, args []string) error {
	c, err := newContext()
	if err != nil {
		return err
	}

	hooksDir := filepath.Join(c.Adapter.VCSDir(), "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return err
	}

	for _, name := range []string{"pre-commit", "post-commit", "post-merge"} {
		if err := installHook(hooksDir, name); err != nil {
			return err
		}
		fmt.Printf("installed %s\n", name)
	}
	return nil
}

// installHook writes hooksDir/<name>, first moving an existing non-git-shadow
// hook aside with a .pre-shadow suffix so the new script can chain to it
// (spec.md §6).
func installHook(hooksDir, name string) error {
	path := filepath.Join(hooksDir, name)
	chained := path + ".pre-shadow"

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		existing, readErr := os.ReadFile(path)
		ownHook := readErr == nil && strings.Contains(string(existing), "# installed by git-shadow")
		if _, chainErr := os.Stat(chained); !ownHook && os.IsNotExist(chainErr) {
			if err := os.Rename(path, chained); err != nil {
				return fmt.Errorf("chaining existing %s hook: %w", name, err)
			}
		}
	}

	content := fmt.Sprintf(hookTemplate, name, name, name)
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return fmt.Errorf("writing %s hook: %w", name, err)
	}
	return nil
}
