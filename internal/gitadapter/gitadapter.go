// Package gitadapter is a thin subprocess wrapper over the git binary,
// exposing exactly the operations the commit-cycle engine needs: repository
// discovery, tracked/HEAD blob queries, index-vs-worktree comparisons,
// staging, and phantom unstaging (spec.md §4.4).
//
// Grounded on the teacher repo's internal/vcs/git package: one exec.Command
// per git invocation, cmd.Dir pinned to the repo root, and errors wrapped
// with the failing command and its stderr. Unlike that package, this
// adapter never interprets git's textual output for anything beyond exit
// codes and the specific porcelain fields spec.md §4.4 names — it is not a
// general VCS abstraction, just the commit-cycle's contract surface.
package gitadapter

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

// Adapter wraps git operations for a single repository.
type Adapter struct {
	repoRoot string
	gitDir   string
	bin      string
}

// Discover locates the repository root and .git metadata directory starting
// from dir, and returns a bound Adapter.
func Discover(dir string) (*Adapter, error) {
	bin := "git"
	out, err := runIn(bin, dir, "rev-parse", "--git-dir", "--show-toplevel")
	if err != nil {
		return nil, shadowerrors.Wrap(shadowerrors.VCSCommandFailed, dir,
			"not inside a git repository", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return nil, shadowerrors.New(shadowerrors.VCSCommandFailed, dir,
			"unexpected output from git rev-parse")
	}
	gitDir := strings.TrimSpace(lines[0])
	repoRoot := strings.TrimSpace(lines[1])
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(repoRoot, gitDir)
	}
	return &Adapter{repoRoot: repoRoot, gitDir: filepath.Clean(gitDir), bin: bin}, nil
}

// RepoRoot returns the repository's working-tree root.
func (a *Adapter) RepoRoot() string { return a.repoRoot }

// VCSDir returns the .git metadata directory.
func (a *Adapter) VCSDir() string { return a.gitDir }

// ShadowDir returns the path git-shadow uses for all persisted state:
// <vcs-dir>/shadow.
func (a *Adapter) ShadowDir() string {
	return filepath.Join(a.gitDir, "shadow")
}

// ExcludeFilePath returns the path to the repository's local ignore file.
func (a *Adapter) ExcludeFilePath() string {
	return filepath.Join(a.gitDir, "info", "exclude")
}

// AbsPath resolves a repo-relative path against the repository root.
func (a *Adapter) AbsPath(relPath string) string {
	return filepath.Join(a.repoRoot, filepath.FromSlash(relPath))
}

func (a *Adapter) run(args ...string) (string, error) {
	return runIn(a.bin, a.repoRoot, args...)
}

func runIn(bin, dir string, args ...string) (string, error) {
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%s %s: %w\n%s", bin, strings.Join(args, " "), err, string(ee.Stderr))
		}
		return "", fmt.Errorf("%s %s: %w", bin, strings.Join(args, " "), err)
	}
	return string(out), nil
}

// IsTracked reports whether path is tracked in the index (`git ls-files
// --error-unmatch`). Any failure of that command is reported as untracked.
func (a *Adapter) IsTracked(path string) (bool, error) {
	cmd := exec.Command(a.bin, "ls-files", "--error-unmatch", "--", path)
	cmd.Dir = a.repoRoot
	if err := cmd.Run(); err != nil {
		return false, nil
	}
	return true, nil
}

// HeadCommit returns the current HEAD commit hash.
func (a *Adapter) HeadCommit() (string, error) {
	out, err := a.run("rev-parse", "HEAD")
	if err != nil {
		return "", shadowerrors.Wrap(shadowerrors.VCSCommandFailed, "HEAD", "", err)
	}
	return strings.TrimSpace(out), nil
}

// HeadBlob returns the bytes of path as recorded at HEAD.
func (a *Adapter) HeadBlob(path string) ([]byte, error) {
	cmd := exec.Command(a.bin, "show", "HEAD:"+path)
	cmd.Dir = a.repoRoot
	out, err := cmd.Output()
	if err != nil {
		return nil, shadowerrors.Wrap(shadowerrors.VCSCommandFailed, path,
			"could not read HEAD:"+path, err)
	}
	return out, nil
}

// BlobAt returns the bytes of path as recorded at the given commit-ish.
func (a *Adapter) BlobAt(commit, path string) ([]byte, error) {
	cmd := exec.Command(a.bin, "show", commit+":"+path)
	cmd.Dir = a.repoRoot
	out, err := cmd.Output()
	if err != nil {
		return nil, shadowerrors.Wrap(shadowerrors.VCSCommandFailed, path,
			fmt.Sprintf("could not read %s:%s", commit, path), err)
	}
	return out, nil
}

// IndexVsHeadDiffers reports whether path's staged content differs from
// HEAD — i.e., whether there is a staged change for it.
func (a *Adapter) IndexVsHeadDiffers(path string) (bool, error) {
	cmd := exec.Command(a.bin, "diff", "--cached", "--quiet", "--", path)
	cmd.Dir = a.repoRoot
	err := cmd.Run()
	if err == nil {
		return false, nil
	}
	if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
		return true, nil
	}
	return false, shadowerrors.Wrap(shadowerrors.VCSCommandFailed, path, "", err)
}

// WorktreeVsIndexDiffers reports whether path's working-tree content
// differs from what is staged — i.e., whether there is an unstaged change.
func (a *Adapter) WorktreeVsIndexDiffers(path string) (bool, error) {
	cmd := exec.Command(a.bin, "diff", "--quiet", "--", path)
	cmd.Dir = a.repoRoot
	err := cmd.Run()
	if err == nil {
		return false, nil
	}
	if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
		return true, nil
	}
	return false, shadowerrors.Wrap(shadowerrors.VCSCommandFailed, path, "", err)
}

// Stage adds path's current working-tree content to the index.
func (a *Adapter) Stage(path string) error {
	if _, err := a.run("add", "--", path); err != nil {
		return shadowerrors.Wrap(shadowerrors.VCSCommandFailed, path, "", err)
	}
	return nil
}

// UnstagePhantom removes path from the index without touching the working
// tree, trying progressively older-but-more-portable git incantations until
// one succeeds, per spec.md §4.4.
func (a *Adapter) UnstagePhantom(path string) error {
	attempts := [][]string{
		{"rm", "--cached", "--ignore-unmatch", "-r", "--", path},
		{"restore", "--staged", "--", path},
		{"reset", "--", path},
	}
	var lastErr error
	for _, args := range attempts {
		if _, err := a.run(args...); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return shadowerrors.Wrap(shadowerrors.VCSCommandFailed, path,
		"none of `rm --cached`, `restore --staged`, or `reset` succeeded", lastErr)
}

// StatusPorcelain returns the raw `git status --porcelain` output for path.
// Neither Doctor nor Status calls it.
func (a *Adapter) StatusPorcelain(path string) (string, error) {
	out, err := a.run("status", "--porcelain", "--", path)
	if err != nil {
		return "", shadowerrors.Wrap(shadowerrors.VCSCommandFailed, path, "", err)
	}
	return out, nil
}
