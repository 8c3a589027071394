package ops

import (
	"bytes"
	"os"

	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/engine"
	"github.com/tanabe1478/git-shadow/internal/pathcodec"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

// SuspendResult reports which entries were set aside.
type SuspendResult struct {
	Suspended []string
}

// Suspend temporarily removes every managed entry's divergent content from
// the working tree, leaving it looking like a clean checkout, without
// touching the registry or baselines (spec_full.md §4.13). It refuses to
// run while a commit cycle is in flight, or while a previous suspend has
// not been resumed.
func Suspend(c *engine.Context, reg *registry.Registry) (*SuspendResult, error) {
	if _, held := c.Lock.Held(); held {
		return nil, shadowerrors.New(shadowerrors.ConcurrentOperation, c.Layout.LockPath,
			"a commit cycle is in flight; wait for it to finish or run `git-shadow restore`")
	}
	if entries, err := os.ReadDir(c.Layout.SuspendedDir); err == nil && len(entries) > 0 {
		return nil, shadowerrors.New(shadowerrors.StashRemnant, c.Layout.SuspendedDir,
			"a previous suspend was not resumed; run `git-shadow resume` first")
	}

	result := &SuspendResult{}
	for _, e := range reg.Overlays() {
		abs := c.Adapter.AbsPath(e.Path)
		encoded := pathcodec.Encode(e.Path)

		working, err := atomicio.ReadFile(abs)
		if err != nil {
			continue // file already missing; nothing to suspend
		}
		baseline, err := atomicio.ReadFile(c.Layout.BaselinePath(encoded))
		if err != nil {
			return result, shadowerrors.New(shadowerrors.BaselineMissing, e.Path, "")
		}
		if bytes.Equal(working, baseline) {
			continue // nothing divergent to suspend
		}

		if err := atomicio.WriteFile(c.Layout.SuspendedPath(encoded), working, 0o644); err != nil {
			return result, shadowerrors.Wrap(shadowerrors.IOError, e.Path, "", err)
		}
		if err := atomicio.WriteFile(abs, baseline, 0o644); err != nil {
			return result, shadowerrors.Wrap(shadowerrors.IOError, e.Path, "", err)
		}
		result.Suspended = append(result.Suspended, e.Path)
	}

	for _, e := range reg.Phantoms() {
		if e.IsDirectory {
			continue // ignore-only; nothing to stash
		}
		abs := c.Adapter.AbsPath(e.Path)
		if !atomicio.Exists(abs) {
			continue
		}
		encoded := pathcodec.Encode(e.Path)
		data, err := atomicio.ReadFile(abs)
		if err != nil {
			return result, shadowerrors.Wrap(shadowerrors.IOError, e.Path, "", err)
		}
		if err := atomicio.WriteFile(c.Layout.SuspendedPath(encoded), data, 0o644); err != nil {
			return result, shadowerrors.Wrap(shadowerrors.IOError, e.Path, "", err)
		}
		if err := atomicio.Remove(abs); err != nil {
			return result, shadowerrors.Wrap(shadowerrors.IOError, e.Path, "", err)
		}
		result.Suspended = append(result.Suspended, e.Path)
	}

	return result, nil
}

// ResumeResult reports which entries were restored.
type ResumeResult struct {
	Resumed []string
}

// Resume reverses Suspend: every entry saved under shadow/suspended/ is
// written back to the working tree and its suspended copy deleted.
// Idempotent — running it with nothing suspended is a no-op.
func Resume(c *engine.Context) (*ResumeResult, error) {
	result := &ResumeResult{}

	entries, err := os.ReadDir(c.Layout.SuspendedDir)
	if err != nil {
		if os.IsNotExist(err) {
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
		suspendedPath := c.Layout.SuspendedPath(encoded)

		data, err := atomicio.ReadFile(suspendedPath)
		if err != nil {
			return result, shadowerrors.Wrap(shadowerrors.IOError, path, "", err)
		}
		if err := atomicio.WriteFile(c.Adapter.AbsPath(path), data, 0o644); err != nil {
			return result, shadowerrors.Wrap(shadowerrors.IOError, path, "", err)
		}
		if err := atomicio.Remove(suspendedPath); err != nil {
			return result, shadowerrors.Wrap(shadowerrors.IOError, path, "", err)
		}
		result.Resumed = append(result.Resumed, path)
	}

	return result, nil
}
