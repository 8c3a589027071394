package ops

import (
	"os"

	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/engine"
	"github.com/tanabe1478/git-shadow/internal/pathcodec"
)

// RestoreResult reports what Restore did.
type RestoreResult struct {
	Restored   []string
	Failed     map[string]error
	LockForced bool
}

// Restore is the idempotent recovery path (spec.md §4.12): drain the stash
// (optionally limited to a single path), unconditionally delete the lock
// file, and report a summary. It is safe to run with nothing to recover —
// an empty stash and an absent lock make Restore a no-op.
func Restore(c *engine.Context, pathFilter string) (*RestoreResult, error) {
	result := &RestoreResult{Failed: map[string]error{}}

	var filterKey string
	if pathFilter != "" {
		filterKey = pathcodec.Normalize(pathFilter)
	}

	entries, err := os.ReadDir(c.Layout.StashDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		encoded := entry.Name()
		path := pathcodec.Decode(encoded)
		if filterKey != "" && path != filterKey {
			continue
		}

		stashPath := c.Layout.StashPath(encoded)
		data, readErr := atomicio.ReadFile(stashPath)
		if readErr != nil {
			result.Failed[path] = readErr
			continue
		}
		if writeErr := atomicio.WriteFile(c.Adapter.AbsPath(path), data, 0o644); writeErr != nil {
			result.Failed[path] = writeErr
			continue
		}
		if rmErr := atomicio.Remove(stashPath); rmErr != nil {
			result.Failed[path] = rmErr
			continue
		}
		result.Restored = append(result.Restored, path)
	}

	if atomicio.Exists(c.Layout.LockPath) {
		if err := c.Lock.Release(); err == nil {
			result.LockForced = true
		}
	}

	return result, nil
}
