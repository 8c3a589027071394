// Package merge runs git's textual three-way merge (spec.md §4.5) to
// rebase an overlay's baseline. It shells out to `git merge-file` with
// --diff3 markers rather than re-implementing a merge algorithm, for the
// same reason the commit-cycle engine shells out to git for staging: the
// porcelain is more exactly specified than any library binding this corpus
// carries.
package merge

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

// Result is the outcome of a three-way merge.
type Result struct {
	// Content is the merged byte stream, including conflict markers if
	// Conflicted is true.
	Content    []byte
	Conflicted bool
}

// ThreeWay merges ours and theirs against base, using git's --diff3 marker
// style. base/ours/theirs are written to temp files because `git merge-file`
// operates on paths, not stdin.
func ThreeWay(base, ours, theirs []byte) (*Result, error) {
	dir, err := os.MkdirTemp("", "git-shadow-merge-*")
	if err != nil {
		return nil, shadowerrors.Wrap(shadowerrors.IOError, "", "", err)
	}
	defer os.RemoveAll(dir)

	oursPath := filepath.Join(dir, "ours")
	basePath := filepath.Join(dir, "base")
	theirsPath := filepath.Join(dir, "theirs")

	if err := os.WriteFile(oursPath, ours, 0o600); err != nil {
		return nil, shadowerrors.Wrap(shadowerrors.IOError, oursPath, "", err)
	}
	if err := os.WriteFile(basePath, base, 0o600); err != nil {
		return nil, shadowerrors.Wrap(shadowerrors.IOError, basePath, "", err)
	}
	if err := os.WriteFile(theirsPath, theirs, 0o600); err != nil {
		return nil, shadowerrors.Wrap(shadowerrors.IOError, theirsPath, "", err)
	}

	// merge-file mutates oursPath in place with --stdout suppressed; we use
	// --stdout so the merged content never needs to be re-read off disk.
	cmd := exec.Command("git", "merge-file", "--diff3", "--stdout", oursPath, basePath, theirsPath)
	out, err := cmd.Output()
	if err == nil {
		return &Result{Content: out, Conflicted: false}, nil
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return nil, shadowerrors.Wrap(shadowerrors.VCSCommandFailed, "merge-file", "", err)
	}
	// git merge-file exits with the number of conflicts on a conflicted
	// merge, and the partially-merged content (with markers) is still on
	// stdout.
	if exitErr.ExitCode() > 0 {
		return &Result{Content: out, Conflicted: true}, nil
	}
	return nil, shadowerrors.Wrap(shadowerrors.VCSCommandFailed, "merge-file", "", err)
}
