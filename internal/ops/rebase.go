package ops

import (
	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/engine"
	"github.com/tanabe1478/git-shadow/internal/merge"
	"github.com/tanabe1478/git-shadow/internal/pathcodec"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

// RebaseResult reports the outcome of rebasing a single overlay.
type RebaseResult struct {
	Path       string
	Conflicted bool
}

// RebaseOne refreshes a single overlay's baseline against the current HEAD
// (spec.md §4.9): three-way merge ours/base/theirs, write the merged result
// (with conflict markers if any) over the working tree, adopt theirs as the
// new baseline, and update baseline_commit. The registry is updated even on
// conflict — the user's subsequent edits become the new overlay.
func RebaseOne(c *engine.Context, reg *registry.Registry, path string) (*RebaseResult, error) {
	key := pathcodec.Normalize(path)
	entry, ok := reg.Get(key)
	if !ok || !entry.IsOverlay() {
		return nil, shadowerrors.New(shadowerrors.NotManaged, key, "")
	}

	encoded := pathcodec.Encode(key)
	ours, err := atomicio.ReadFile(c.Adapter.AbsPath(key))
	if err != nil {
		return nil, shadowerrors.New(shadowerrors.FileMissing, key, "")
	}
	base, err := atomicio.ReadFile(c.Layout.BaselinePath(encoded))
	if err != nil {
		return nil, shadowerrors.New(shadowerrors.BaselineMissing, key, "")
	}
	theirs, err := c.Adapter.HeadBlob(key)
	if err != nil {
		return nil, err
	}

	merged, err := merge.ThreeWay(base, ours, theirs)
	if err != nil {
		return nil, err
	}

	if err := atomicio.WriteFile(c.Adapter.AbsPath(key), merged.Content, 0o644); err != nil {
		return nil, shadowerrors.Wrap(shadowerrors.IOError, key, "", err)
	}
	if err := atomicio.WriteFile(c.Layout.BaselinePath(encoded), theirs, 0o644); err != nil {
		return nil, shadowerrors.Wrap(shadowerrors.IOError, key, "", err)
	}

	head, err := c.Adapter.HeadCommit()
	if err != nil {
		return nil, err
	}
	if err := reg.UpdateBaselineCommit(key, head); err != nil {
		return nil, err
	}

	return &RebaseResult{Path: key, Conflicted: merged.Conflicted}, nil
}

// RebaseAll rebases every overlay entry, collecting one result per entry and
// continuing past conflicts (spec.md §7: rebase surfaces conflicts as
// warnings but completes the baseline update for every entry it can reach).
func RebaseAll(c *engine.Context, reg *registry.Registry) ([]*RebaseResult, error) {
	var results []*RebaseResult
	for _, e := range reg.Overlays() {
		r, err := RebaseOne(c, reg, e.Path)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}
