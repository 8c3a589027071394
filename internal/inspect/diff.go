package inspect

import (
	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/engine"
	"github.com/tanabe1478/git-shadow/internal/pathcodec"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

// OverlayDiff carries the two byte buffers a caller needs to render a diff
// for one overlay. Producing colored, unified-diff text from these buffers
// is peripheral presentation (spec.md §1 scopes "colored diff rendering"
// out of the core) and is left to the CLI layer, which may shell out to
// `git diff --no-index` for the rendering itself.
type OverlayDiff struct {
	Path     string
	Baseline []byte
	Working  []byte
}

// Diff returns the baseline and working-tree bytes for path, so the caller
// can render their difference. Diff does not acquire the lock; per spec.md
// §5 it must tolerate (not fail on) a transaction in progress, so it always
// reads whatever is currently on disk.
func Diff(c *engine.Context, reg *registry.Registry, path string) (*OverlayDiff, error) {
	key := pathcodec.Normalize(path)
	entry, ok := reg.Get(key)
	if !ok || !entry.IsOverlay() {
		return nil, shadowerrors.New(shadowerrors.NotManaged, key,
			"only overlay entries can be diffed")
	}

	baseline, err := atomicio.ReadFile(c.Layout.BaselinePath(pathcodec.Encode(key)))
	if err != nil {
		return nil, shadowerrors.New(shadowerrors.BaselineMissing, key, "")
	}
	working, err := atomicio.ReadFile(c.Adapter.AbsPath(key))
	if err != nil {
		return nil, shadowerrors.New(shadowerrors.FileMissing, key, "")
	}

	return &OverlayDiff{Path: key, Baseline: baseline, Working: working}, nil
}

// DiffAll returns an OverlayDiff for every overlay entry whose working tree
// currently diverges from its baseline.
func DiffAll(c *engine.Context, reg *registry.Registry) ([]*OverlayDiff, error) {
	var out []*OverlayDiff
	for _, e := range reg.Overlays() {
		d, err := Diff(c, reg, e.Path)
		if err != nil {
			continue
		}
		if string(d.Baseline) != string(d.Working) {
			out = append(out, d)
		}
	}
	return out, nil
}
