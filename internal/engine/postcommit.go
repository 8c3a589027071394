package engine

import (
	"fmt"
	"os"

	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/pathcodec"
)

// PostCommitResult reports which stash entries failed to restore, if any.
type PostCommitResult struct {
	Restored []string
	Failed   []string
}

// PostCommit drains the stash, restoring each entry's bytes to the working
// tree (spec.md §4.7). It is best-effort: one failure does not stop the
// others. The lock is released only if every entry restored cleanly;
// otherwise it is left held so `restore` can finish the job, and the
// caller should print Failed with guidance to run it.
func (c *Context) PostCommit() (*PostCommitResult, error) {
	result := &PostCommitResult{}

	entries, err := os.ReadDir(c.Layout.StashDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.Lock.Release()
			return result, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		encoded := entry.Name()
		path := pathcodec.Decode(encoded)
		stashPath := c.Layout.StashPath(encoded)

		data, err := atomicio.ReadFile(stashPath)
		if err != nil {
			result.Failed = append(result.Failed, path)
			c.Logger.Printf("post-commit: read stash for %s: %v", path, err)
			continue
		}
		if err := atomicio.WriteFile(c.Adapter.AbsPath(path), data, 0o644); err != nil {
			result.Failed = append(result.Failed, path)
			c.Logger.Printf("post-commit: restore %s: %v", path, err)
			continue
		}
		if err := atomicio.Remove(stashPath); err != nil {
			result.Failed = append(result.Failed, path)
			c.Logger.Printf("post-commit: clear stash for %s: %v", path, err)
			continue
		}
		result.Restored = append(result.Restored, path)
	}

	if len(result.Failed) == 0 {
		c.Lock.Release()
	} else {
		c.Logger.Printf("post-commit: %d entries failed to restore; lock left held", len(result.Failed))
	}
	return result, nil
}

// FailureSummary renders a PostCommitResult's failures for CLI output.
func (r *PostCommitResult) FailureSummary() string {
	if len(r.Failed) == 0 {
		return ""
	}
	msg := "failed to restore:"
	for _, p := range r.Failed {
		msg += fmt.Sprintf("\n  %s", p)
	}
	msg += "\nrun `git-shadow restore` to finish recovering the working tree"
	return msg
}
