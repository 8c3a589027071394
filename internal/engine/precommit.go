package engine

import (
	"fmt"
	"os"

	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/pathcodec"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

// PreCommitResult reports the outcome of a successful pre-commit run,
// including any soft warnings a caller should print before letting the
// commit proceed.
type PreCommitResult struct {
	Warnings []string
}

// PreCommit runs the transactional substitution protocol (spec.md §4.6).
// On success, the lock remains held and the stash remains populated; the
// caller (the pre-commit hook) lets the VCS record the commit, and
// PostCommit finishes the cycle.
func (c *Context) PreCommit() (*PreCommitResult, error) {
	if err := c.Lock.Acquire(); err != nil {
		return nil, err
	}

	reg, err := c.LoadRegistry()
	if err != nil {
		c.Lock.Release()
		return nil, err
	}

	if err := c.checkStashEmpty(); err != nil {
		c.Lock.Release()
		return nil, err
	}

	result := &PreCommitResult{}
	head, _ := c.Adapter.HeadCommit()

	if err := c.hardIntegrityChecks(reg); err != nil {
		c.Lock.Release()
		return nil, err
	}
	result.Warnings = append(result.Warnings, c.softWarnings(reg, head)...)

	if err := c.partialStagingGuard(reg); err != nil {
		c.Lock.Release()
		return nil, err
	}

	tx := &Transaction{}
	if err := c.mutateOverlays(reg, tx); err != nil {
		c.rollback(tx)
		return nil, err
	}
	if err := c.mutatePhantoms(reg, tx); err != nil {
		c.rollback(tx)
		return nil, err
	}

	c.Logger.Printf("pre-commit: transaction complete, %d steps, lock held for post-commit", len(tx.Steps))
	return result, nil
}

func (c *Context) checkStashEmpty() error {
	entries, err := os.ReadDir(c.Layout.StashDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return shadowerrors.Wrap(shadowerrors.IOError, c.Layout.StashDir, "", err)
	}
	if len(entries) > 0 {
		return shadowerrors.New(shadowerrors.StashRemnant, c.Layout.StashDir,
			"a prior transaction was interrupted; run `git-shadow restore`")
	}
	return nil
}

func (c *Context) hardIntegrityChecks(reg *registry.Registry) error {
	for _, e := range reg.Overlays() {
		abs := c.Adapter.AbsPath(e.Path)
		if !atomicio.Exists(abs) {
			return shadowerrors.New(shadowerrors.FileMissing, e.Path,
				"the overlay's working-tree file is missing")
		}
		baseline := c.Layout.BaselinePath(pathcodec.Encode(e.Path))
		if !atomicio.IsRegularFile(baseline) {
			return shadowerrors.New(shadowerrors.BaselineMissing, e.Path,
				"run `git-shadow rebase` after restoring the baseline")
		}
	}
	return nil
}

func (c *Context) softWarnings(reg *registry.Registry, head string) []string {
	var warnings []string
	for _, e := range reg.Overlays() {
		if head != "" && e.BaselineCommit != "" && e.BaselineCommit != head {
			warnings = append(warnings, fmt.Sprintf(
				"%s: baseline is from %s, HEAD is now %s; run `git-shadow rebase %s`",
				e.Path, short(e.BaselineCommit), short(head), e.Path))
		}
	}
	for _, e := range reg.Phantoms() {
		if e.ExcludeMode == registry.ExcludeNone {
			warnings = append(warnings, fmt.Sprintf(
				"%s: not excluded from status; it will show as untracked", e.Path))
		}
	}
	return warnings
}

func short(commit string) string {
	if len(commit) > 10 {
		return commit[:10]
	}
	return commit
}

func (c *Context) partialStagingGuard(reg *registry.Registry) error {
	for _, e := range reg.Overlays() {
		indexDiffers, err := c.Adapter.IndexVsHeadDiffers(e.Path)
		if err != nil {
			return err
		}
		worktreeDiffers, err := c.Adapter.WorktreeVsIndexDiffers(e.Path)
		if err != nil {
			return err
		}
		if indexDiffers && worktreeDiffers {
			return shadowerrors.New(shadowerrors.PartialStage, e.Path,
				"stage all of this file's changes, or none, before committing")
		}
	}
	return nil
}

func (c *Context) mutateOverlays(reg *registry.Registry, tx *Transaction) error {
	for _, e := range reg.Overlays() {
		abs := c.Adapter.AbsPath(e.Path)
		encoded := pathcodec.Encode(e.Path)

		working, err := atomicio.ReadFile(abs)
		if err != nil {
			return shadowerrors.Wrap(shadowerrors.IOError, e.Path, "", err)
		}
		if err := atomicio.WriteFile(c.Layout.StashPath(encoded), working, 0o644); err != nil {
			return shadowerrors.Wrap(shadowerrors.IOError, e.Path, "", err)
		}

		baseline, err := atomicio.ReadFile(c.Layout.BaselinePath(encoded))
		if err != nil {
			return shadowerrors.Wrap(shadowerrors.IOError, e.Path, "", err)
		}
		if err := atomicio.WriteFile(abs, baseline, 0o644); err != nil {
			return shadowerrors.Wrap(shadowerrors.IOError, e.Path, "", err)
		}
		tx.record(StepOverlayBaselineWrite, e.Path)

		if err := c.Adapter.Stage(e.Path); err != nil {
			return err
		}
		tx.record(StepOverlayStaged, e.Path)

		c.Logger.Printf("pre-commit: stashed and replaced overlay %s", e.Path)
	}
	return nil
}

func (c *Context) mutatePhantoms(reg *registry.Registry, tx *Transaction) error {
	for _, e := range reg.Phantoms() {
		if e.IsDirectory {
			if err := c.Adapter.UnstagePhantom(e.Path); err != nil {
				return err
			}
			tx.record(StepPhantomUnstaged, e.Path)
			c.Logger.Printf("pre-commit: unstaged phantom directory %s", e.Path)
			continue
		}

		abs := c.Adapter.AbsPath(e.Path)
		encoded := pathcodec.Encode(e.Path)
		if atomicio.Exists(abs) {
			data, err := atomicio.ReadFile(abs)
			if err != nil {
				return shadowerrors.Wrap(shadowerrors.IOError, e.Path, "", err)
			}
			if err := atomicio.WriteFile(c.Layout.StashPath(encoded), data, 0o644); err != nil {
				return shadowerrors.Wrap(shadowerrors.IOError, e.Path, "", err)
			}
			tx.record(StepPhantomStashed, e.Path)
		}

		if err := c.Adapter.UnstagePhantom(e.Path); err != nil {
			return err
		}
		tx.record(StepPhantomUnstaged, e.Path)
		c.Logger.Printf("pre-commit: unstaged phantom file %s", e.Path)
	}
	return nil
}

// rollback walks tx in reverse and undoes each mutation (spec.md §4.6
// "Rollback"). A rollback failure does not propagate; it is logged, and the
// stash plus lock are left intact for `restore` to finish the job.
func (c *Context) rollback(tx *Transaction) {
	rolledBack := map[string]bool{}
	failed := false

	for i := len(tx.Steps) - 1; i >= 0; i-- {
		step := tx.Steps[i]
		switch step.Kind {
		case StepOverlayBaselineWrite:
			if rolledBack[step.Path] {
				continue
			}
			if err := c.rollbackOverlay(step.Path); err != nil {
				c.Logger.Printf("rollback: overlay %s: %v (stash and lock left in place; run `git-shadow restore`)", step.Path, err)
				failed = true
				continue
			}
			rolledBack[step.Path] = true
		case StepPhantomUnstaged:
			key := "phantom:" + step.Path
			if rolledBack[key] {
				continue
			}
			if err := c.rollbackPhantom(step.Path); err != nil {
				c.Logger.Printf("rollback: phantom %s: %v (stash and lock left in place; run `git-shadow restore`)", step.Path, err)
				failed = true
				continue
			}
			rolledBack[key] = true
		}
	}

	if failed {
		return
	}
	c.Lock.Release()
}

func (c *Context) rollbackOverlay(path string) error {
	encoded := pathcodec.Encode(path)
	stashPath := c.Layout.StashPath(encoded)
	if !atomicio.Exists(stashPath) {
		return nil
	}
	data, err := atomicio.ReadFile(stashPath)
	if err != nil {
		return err
	}
	if err := atomicio.WriteFile(c.Adapter.AbsPath(path), data, 0o644); err != nil {
		return err
	}
	if err := c.Adapter.Stage(path); err != nil {
		return err
	}
	return atomicio.Remove(stashPath)
}

func (c *Context) rollbackPhantom(path string) error {
	encoded := pathcodec.Encode(path)
	stashPath := c.Layout.StashPath(encoded)
	if !atomicio.Exists(stashPath) {
		return nil
	}
	data, err := atomicio.ReadFile(stashPath)
	if err != nil {
		return err
	}
	if err := atomicio.WriteFile(c.Adapter.AbsPath(path), data, 0o644); err != nil {
		return err
	}
	return atomicio.Remove(stashPath)
}
