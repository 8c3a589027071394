package ops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/tanabe1478/git-shadow/internal/engine"
	"github.com/tanabe1478/git-shadow/internal/exclude"
	"github.com/tanabe1478/git-shadow/internal/oplog"
	"github.com/tanabe1478/git-shadow/internal/registry"
)

func newTestContext(t *testing.T) *engine.Context {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("shared: true\n"), 0o644); err != nil {
		t.Fatalf("write config.yml: %v", err)
	}
	run("add", "config.yml")
	run("commit", "-q", "-m", "initial")

	c, err := engine.NewContext(dir, oplog.Discard())
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return c
}

func TestAddOverlayWritesBaselineAndEntry(t *testing.T) {
	c := newTestContext(t)
	reg, err := c.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	entry, err := AddOverlay(c, reg, "config.yml", AddOverlayOptions{SizeLimitBytes: 1 << 20})
	if err != nil {
		t.Fatalf("AddOverlay: %v", err)
	}
	if entry.BaselineCommit == "" {
		t.Fatal("expected a baseline commit to be recorded")
	}
	baseline, err := os.ReadFile(c.Layout.BaselinePath("config.yml"))
	if err != nil {
		t.Fatalf("baseline file not written: %v", err)
	}
	if string(baseline) != "shared: true\n" {
		t.Fatalf("got baseline %q", baseline)
	}
}

func TestAddOverlayRejectsUntracked(t *testing.T) {
	c := newTestContext(t)
	reg, err := c.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if err := os.WriteFile(c.Adapter.AbsPath("untracked.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := AddOverlay(c, reg, "untracked.txt", AddOverlayOptions{}); err == nil {
		t.Fatal("expected AddOverlay to reject an untracked path")
	}
}

func TestAddOverlayRejectsOversizeWithoutForce(t *testing.T) {
	c := newTestContext(t)
	reg, err := c.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, err := AddOverlay(c, reg, "config.yml", AddOverlayOptions{SizeLimitBytes: 1}); err == nil {
		t.Fatal("expected AddOverlay to reject content exceeding the size limit")
	}
	if _, err := AddOverlay(c, reg, "config.yml", AddOverlayOptions{SizeLimitBytes: 1, Force: true}); err != nil {
		t.Fatalf("AddOverlay with Force should succeed despite the size limit: %v", err)
	}
}

func TestAddPhantomFileWithExclude(t *testing.T) {
	c := newTestContext(t)
	reg, err := c.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	excl := exclude.New(c.Layout.ExcludePath)

	if err := os.WriteFile(c.Adapter.AbsPath("local.env"), []byte("SECRET=1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entry, err := AddPhantom(c, reg, excl, "local.env", AddPhantomOptions{ExcludeMode: registry.ExcludeManagedIgnore})
	if err != nil {
		t.Fatalf("AddPhantom: %v", err)
	}
	if entry.IsDirectory {
		t.Fatal("local.env is a file, not a directory")
	}

	entries, err := excl.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 || entries[0] != "local.env" {
		t.Fatalf("got %v, want [local.env]", entries)
	}
}

func TestAddPhantomRejectsTracked(t *testing.T) {
	c := newTestContext(t)
	reg, err := c.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	excl := exclude.New(c.Layout.ExcludePath)
	if _, err := AddPhantom(c, reg, excl, "config.yml", AddPhantomOptions{}); err == nil {
		t.Fatal("expected AddPhantom to reject an already-tracked path")
	}
}

func TestRemoveOverlayRestoresBaselineAndDropsEntry(t *testing.T) {
	c := newTestContext(t)
	reg, err := c.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	excl := exclude.New(c.Layout.ExcludePath)

	if _, err := AddOverlay(c, reg, "config.yml", AddOverlayOptions{SizeLimitBytes: 1 << 20}); err != nil {
		t.Fatalf("AddOverlay: %v", err)
	}
	if err := os.WriteFile(c.Adapter.AbsPath("config.yml"), []byte("shared: true\nlocal: x\n"), 0o644); err != nil {
		t.Fatalf("diverge working copy: %v", err)
	}

	if err := Remove(c, reg, excl, "config.yml"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	content, err := os.ReadFile(c.Adapter.AbsPath("config.yml"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(content) != "shared: true\n" {
		t.Fatalf("Remove should restore the baseline content, got %q", content)
	}
	if _, ok := reg.Get("config.yml"); ok {
		t.Fatal("entry should be gone from the registry after Remove")
	}
}

func TestSuspendResumeRoundTrip(t *testing.T) {
	c := newTestContext(t)
	reg, err := c.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, err := AddOverlay(c, reg, "config.yml", AddOverlayOptions{SizeLimitBytes: 1 << 20}); err != nil {
		t.Fatalf("AddOverlay: %v", err)
	}
	divergent := []byte("shared: true\nlocal: debug\n")
	if err := os.WriteFile(c.Adapter.AbsPath("config.yml"), divergent, 0o644); err != nil {
		t.Fatalf("diverge: %v", err)
	}

	suspendResult, err := Suspend(c, reg)
	if err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if len(suspendResult.Suspended) != 1 {
		t.Fatalf("expected one suspended entry, got %v", suspendResult.Suspended)
	}
	afterSuspend, err := os.ReadFile(c.Adapter.AbsPath("config.yml"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(afterSuspend) != "shared: true\n" {
		t.Fatalf("suspend should leave the baseline content in place, got %q", afterSuspend)
	}

	resumeResult, err := Resume(c)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if len(resumeResult.Resumed) != 1 {
		t.Fatalf("expected one resumed entry, got %v", resumeResult.Resumed)
	}
	afterResume, err := os.ReadFile(c.Adapter.AbsPath("config.yml"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(afterResume) != string(divergent) {
		t.Fatalf("resume should restore the divergent content, got %q", afterResume)
	}
}

func TestRestoreDrainsStashAndClearsLock(t *testing.T) {
	c := newTestContext(t)
	if err := c.Lock.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := os.MkdirAll(c.Layout.StashDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(c.Layout.StashPath("config.yml"), []byte("stashed content\n"), 0o644); err != nil {
		t.Fatalf("write stash: %v", err)
	}

	result, err := Restore(c, "")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(result.Restored) != 1 || result.Restored[0] != "config.yml" {
		t.Fatalf("got %v", result.Restored)
	}
	if !result.LockForced {
		t.Fatal("expected Restore to report that it cleared the lock")
	}
	content, err := os.ReadFile(c.Adapter.AbsPath("config.yml"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(content) != "stashed content\n" {
		t.Fatalf("got %q", content)
	}
	if _, held := c.Lock.Held(); held {
		t.Fatal("expected the lock to be cleared by Restore")
	}
}

func TestRebaseOneUpdatesBaselineAndMerges(t *testing.T) {
	c := newTestContext(t)
	reg, err := c.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, err := AddOverlay(c, reg, "config.yml", AddOverlayOptions{SizeLimitBytes: 1 << 20}); err != nil {
		t.Fatalf("AddOverlay: %v", err)
	}
	if err := os.WriteFile(c.Adapter.AbsPath("config.yml"), []byte("shared: true\nlocal: x\n"), 0o644); err != nil {
		t.Fatalf("diverge: %v", err)
	}

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = c.Adapter.RepoRoot()
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	// Reset config.yml back to HEAD before the upstream commit, since it was
	// diverged above purely in the working tree (not committed).
	oldBaseline, err := c.Adapter.HeadBlob("config.yml")
	if err != nil {
		t.Fatalf("HeadBlob: %v", err)
	}
	if err := os.WriteFile(c.Adapter.AbsPath("config.yml"), oldBaseline, 0o644); err != nil {
		t.Fatalf("reset before upstream commit: %v", err)
	}
	if err := os.WriteFile(c.Adapter.AbsPath("config.yml"), []byte("shared: true\nupstream: new\n"), 0o644); err != nil {
		t.Fatalf("write upstream: %v", err)
	}
	run("commit", "-q", "-am", "upstream change")
	if err := os.WriteFile(c.Adapter.AbsPath("config.yml"), []byte("local: x\nshared: true\nupstream: new\n"), 0o644); err != nil {
		t.Fatalf("reapply local edit: %v", err)
	}

	result, err := RebaseOne(c, reg, "config.yml")
	if err != nil {
		t.Fatalf("RebaseOne: %v", err)
	}
	if result.Conflicted {
		t.Fatalf("expected a clean merge")
	}
	entry, _ := reg.Get("config.yml")
	head, _ := c.Adapter.HeadCommit()
	if entry.BaselineCommit != head {
		t.Fatalf("baseline commit not updated: got %q, want %q", entry.BaselineCommit, head)
	}
}
