package ops

import (
	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/engine"
	"github.com/tanabe1478/git-shadow/internal/exclude"
	"github.com/tanabe1478/git-shadow/internal/pathcodec"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

// Remove drops path from the registry (spec.md §4.11). Confirmation
// (interactive unless force-flagged) is the CLI layer's responsibility;
// by the time Remove is called, the caller has already decided to proceed.
//
//   - Overlay: the working-tree file is overwritten with the baseline bytes
//     (the shadow changes are discarded), then the baseline is deleted.
//   - Phantom: the file or directory is left in place; only its registry
//     entry and exclude-file line are dropped.
func Remove(c *engine.Context, reg *registry.Registry, excl *exclude.Manager, path string) error {
	key := pathcodec.Normalize(path)
	entry, ok := reg.Get(key)
	if !ok {
		return shadowerrors.New(shadowerrors.NotManaged, key, "")
	}

	if entry.IsOverlay() {
		encoded := pathcodec.Encode(key)
		baselinePath := c.Layout.BaselinePath(encoded)
		baseline, err := atomicio.ReadFile(baselinePath)
		if err != nil {
			return shadowerrors.Wrap(shadowerrors.BaselineMissing, key, "", err)
		}
		if err := atomicio.WriteFile(c.Adapter.AbsPath(key), baseline, 0o644); err != nil {
			return shadowerrors.Wrap(shadowerrors.IOError, key, "", err)
		}
		if err := atomicio.Remove(baselinePath); err != nil {
			return shadowerrors.Wrap(shadowerrors.IOError, key, "", err)
		}
	} else if entry.ExcludeMode == registry.ExcludeManagedIgnore {
		line := key
		if entry.IsDirectory {
			line += "/"
		}
		if err := excl.Remove(line); err != nil {
			return err
		}
	}

	return reg.Remove(key)
}
