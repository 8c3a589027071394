package merge

import (
	"bytes"
	"os/exec"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestThreeWayCleanMerge(t *testing.T) {
	requireGit(t)

	base := []byte("line1\nline2\nline3\n")
	ours := []byte("line1\nlocal edit\nline3\n")
	theirs := []byte("line1\nline2\nline3\nline4\n")

	result, err := ThreeWay(base, ours, theirs)
	if err != nil {
		t.Fatalf("ThreeWay: %v", err)
	}
	if result.Conflicted {
		t.Fatalf("expected a clean merge, got conflicted content:\n%s", result.Content)
	}
	if !bytes.Contains(result.Content, []byte("local edit")) {
		t.Fatalf("merged content lost the local edit:\n%s", result.Content)
	}
	if !bytes.Contains(result.Content, []byte("line4")) {
		t.Fatalf("merged content lost the upstream addition:\n%s", result.Content)
	}
}

func TestThreeWayConflict(t *testing.T) {
	requireGit(t)

	base := []byte("shared\n")
	ours := []byte("ours-edit\n")
	theirs := []byte("theirs-edit\n")

	result, err := ThreeWay(base, ours, theirs)
	if err != nil {
		t.Fatalf("ThreeWay: %v", err)
	}
	if !result.Conflicted {
		t.Fatalf("expected a conflict, got clean content:\n%s", result.Content)
	}
	if !bytes.Contains(result.Content, []byte("<<<<<<<")) {
		t.Fatalf("expected diff3 conflict markers in content:\n%s", result.Content)
	}
}
