// Package engine implements the pre-commit, post-commit, and post-merge
// protocol that is the transactional heart of git-shadow (spec.md §4.6-4.8).
package engine

import (
	"log"
	"path/filepath"

	"github.com/tanabe1478/git-shadow/internal/gitadapter"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/shadowlock"
)

// Layout resolves every persisted path under the VCS metadata directory, per
// spec.md §6's "Persisted layout".
type Layout struct {
	ShadowDir     string
	RegistryPath  string
	LockPath      string
	BaselinesDir  string
	StashDir      string
	SuspendedDir  string
	OperationsLog string
	ExcludePath   string
}

// NewLayout derives a Layout from an Adapter's discovered repository.
func NewLayout(a *gitadapter.Adapter) Layout {
	shadow := a.ShadowDir()
	return Layout{
		ShadowDir:     shadow,
		RegistryPath:  filepath.Join(shadow, "config.json"),
		LockPath:      filepath.Join(shadow, "lock"),
		BaselinesDir:  filepath.Join(shadow, "baselines"),
		StashDir:      filepath.Join(shadow, "stash"),
		SuspendedDir:  filepath.Join(shadow, "suspended"),
		OperationsLog: filepath.Join(shadow, "git-shadow.log"),
		ExcludePath:   a.ExcludeFilePath(),
	}
}

// BaselinePath returns the on-disk path for an entry's baseline blob.
func (l Layout) BaselinePath(encoded string) string {
	return filepath.Join(l.BaselinesDir, encoded)
}

// StashPath returns the on-disk path for an entry's stash blob.
func (l Layout) StashPath(encoded string) string {
	return filepath.Join(l.StashDir, encoded)
}

// SuspendedPath returns the on-disk path for an entry's suspended blob.
func (l Layout) SuspendedPath(encoded string) string {
	return filepath.Join(l.SuspendedDir, encoded)
}

// Context bundles everything an engine or ops command needs: the git
// adapter, the resolved layout, the lock, and a logger. Registry is loaded
// on demand by callers since its lifetime (load -> mutate -> save) varies
// per command.
type Context struct {
	Adapter *gitadapter.Adapter
	Layout  Layout
	Lock    *shadowlock.Lock
	Logger  *log.Logger
}

// NewContext builds a Context for the repository containing dir.
func NewContext(dir string, logger *log.Logger) (*Context, error) {
	adapter, err := gitadapter.Discover(dir)
	if err != nil {
		return nil, err
	}
	layout := NewLayout(adapter)
	return &Context{
		Adapter: adapter,
		Layout:  layout,
		Lock:    shadowlock.New(layout.LockPath),
		Logger:  logger,
	}, nil
}

// LoadRegistry loads the registry from the context's layout.
func (c *Context) LoadRegistry() (*registry.Registry, error) {
	return registry.Load(c.Layout.RegistryPath)
}
