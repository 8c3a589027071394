package engine

import (
	"os"
	"os/exec"
	"testing"
)

func TestPostMergeDetectsDrift(t *testing.T) {
	c := newTestContext(t)

	reg, err := c.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	head, err := c.Adapter.HeadCommit()
	if err != nil {
		t.Fatalf("HeadCommit: %v", err)
	}
	if _, err := reg.AddOverlay("config.yml", head); err != nil {
		t.Fatalf("AddOverlay: %v", err)
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	baseline, err := c.Adapter.HeadBlob("config.yml")
	if err != nil {
		t.Fatalf("HeadBlob: %v", err)
	}
	if err := os.MkdirAll(c.Layout.BaselinesDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(c.Layout.BaselinePath("config.yml"), baseline, 0o644); err != nil {
		t.Fatalf("write baseline: %v", err)
	}

	result, err := c.PostMerge()
	if err != nil {
		t.Fatalf("PostMerge: %v", err)
	}
	if len(result.Drifted) != 0 {
		t.Fatalf("expected no drift right after the baseline was captured, got %v", result.Drifted)
	}

	// Simulate an upstream change to config.yml landing via merge.
	repoFile := c.Adapter.AbsPath("config.yml")
	if err := os.WriteFile(repoFile, []byte("shared: true\nupstream: new\n"), 0o644); err != nil {
		t.Fatalf("write upstream change: %v", err)
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
	run("commit", "-q", "-am", "upstream change")

	result, err = c.PostMerge()
	if err != nil {
		t.Fatalf("PostMerge: %v", err)
	}
	if len(result.Drifted) != 1 || result.Drifted[0] != "config.yml" {
		t.Fatalf("expected config.yml to be reported as drifted, got %v", result.Drifted)
	}
	warnings := result.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}
