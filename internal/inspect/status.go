// Package inspect implements the read-only surfaces: status, diff, and
// doctor (spec.md §4, "Status / Diff / Doctor"). None of these acquire the
// lock, but all must tolerate observing a transaction in progress.
package inspect

import (
	"bytes"
	"os"

	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/engine"
	"github.com/tanabe1478/git-shadow/internal/pathcodec"
	"github.com/tanabe1478/git-shadow/internal/registry"
)

// EntryStatus is one line of `git-shadow status` output.
type EntryStatus struct {
	Path     string
	Kind     registry.Type
	Diverged bool // overlay: working tree != baseline
	Missing  bool // working-tree file/dir absent
	Excluded bool // phantom: has a managed-ignore exclude entry
}

// Status reports the state of every managed entry plus whether a
// transaction is currently in flight (spec.md §5: read-only commands must
// tolerate, not block on, an in-progress transaction).
type Status struct {
	Entries          []EntryStatus
	TransactionInFlight bool
	StashRemnant        bool
}

// BuildStatus inspects the registry and working tree without acquiring the
// lock.
func BuildStatus(c *engine.Context, reg *registry.Registry) (*Status, error) {
	s := &Status{}

	if _, held := c.Lock.Held(); held {
		s.TransactionInFlight = true
	}
	if entries, err := os.ReadDir(c.Layout.StashDir); err == nil && len(entries) > 0 {
		s.StashRemnant = true
	}

	for _, e := range reg.All() {
		es := EntryStatus{Path: e.Path, Kind: e.Type}
		abs := c.Adapter.AbsPath(e.Path)

		switch {
		case e.IsOverlay():
			working, err := atomicio.ReadFile(abs)
			if err != nil {
				es.Missing = true
			} else {
				baseline, err := atomicio.ReadFile(c.Layout.BaselinePath(pathcodec.Encode(e.Path)))
				if err == nil {
					es.Diverged = !bytes.Equal(working, baseline)
				}
			}
		case e.IsDirectory:
			es.Missing = !atomicio.IsDir(abs)
			es.Excluded = e.ExcludeMode == registry.ExcludeManagedIgnore
		default: // phantom file
			es.Missing = !atomicio.Exists(abs)
			es.Excluded = e.ExcludeMode == registry.ExcludeManagedIgnore
		}

		s.Entries = append(s.Entries, es)
	}

	return s, nil
}
