// Package ops implements the state-transition commands over the registry:
// add, remove, rebase, restore, suspend, and resume (spec.md §4.9-4.13).
package ops

import (
	"fmt"

	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/engine"
	"github.com/tanabe1478/git-shadow/internal/exclude"
	"github.com/tanabe1478/git-shadow/internal/pathcodec"
	"github.com/tanabe1478/git-shadow/internal/registry"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

// AddOverlayOptions configures AddOverlay.
type AddOverlayOptions struct {
	SizeLimitBytes int64
	Force          bool
}

// AddOverlay registers path as an overlay entry (spec.md §4.10). path must
// already be tracked at HEAD. The HEAD content becomes the baseline, unless
// it is binary or exceeds the size limit and Force is not set.
func AddOverlay(c *engine.Context, reg *registry.Registry, path string, opts AddOverlayOptions) (*registry.Entry, error) {
	key := pathcodec.Normalize(path)

	tracked, err := c.Adapter.IsTracked(key)
	if err != nil {
		return nil, err
	}
	if !tracked {
		return nil, shadowerrors.New(shadowerrors.NotTracked, key,
			"only files already tracked by git can become overlays; did you mean --phantom?")
	}

	baseline, err := c.Adapter.HeadBlob(key)
	if err != nil {
		return nil, err
	}

	if !opts.Force {
		if atomicio.IsBinary(baseline) {
			return nil, shadowerrors.New(shadowerrors.BinaryRejected, key,
				"pass --force to register a binary overlay anyway")
		}
		if atomicio.ExceedsSize(baseline, opts.SizeLimitBytes) {
			return nil, shadowerrors.New(shadowerrors.Oversize, key,
				fmt.Sprintf("exceeds the %d byte limit; pass --force to register it anyway", opts.SizeLimitBytes))
		}
	}

	head, err := c.Adapter.HeadCommit()
	if err != nil {
		return nil, err
	}

	if err := atomicio.WriteFile(c.Layout.BaselinePath(pathcodec.Encode(key)), baseline, 0o644); err != nil {
		return nil, shadowerrors.Wrap(shadowerrors.IOError, key, "", err)
	}

	entry, err := reg.AddOverlay(key, head)
	if err != nil {
		atomicio.Remove(c.Layout.BaselinePath(pathcodec.Encode(key)))
		return nil, err
	}
	return entry, nil
}

// AddPhantomOptions configures AddPhantom.
type AddPhantomOptions struct {
	ExcludeMode registry.ExcludeMode
}

// AddPhantom registers path as a phantom entry (spec.md §4.10). path must
// not be tracked. Whether it is a file or a directory is detected from the
// current working tree, since a directory phantom is managed only through
// its exclude-file entry.
func AddPhantom(c *engine.Context, reg *registry.Registry, excl *exclude.Manager, path string, opts AddPhantomOptions) (*registry.Entry, error) {
	key := pathcodec.Normalize(path)

	tracked, err := c.Adapter.IsTracked(key)
	if err != nil {
		return nil, err
	}
	if tracked {
		return nil, shadowerrors.New(shadowerrors.AlreadyTracked, key,
			"only untracked paths can become phantoms; did you mean to add it as an overlay?")
	}

	isDir := atomicio.IsDir(c.Adapter.AbsPath(key))

	entry, err := reg.AddPhantom(key, opts.ExcludeMode, isDir)
	if err != nil {
		return nil, err
	}

	if opts.ExcludeMode == registry.ExcludeManagedIgnore {
		line := key
		if isDir {
			line += "/"
		}
		if err := excl.Add(line); err != nil {
			reg.Remove(key)
			return nil, err
		}
	}
	return entry, nil
}
