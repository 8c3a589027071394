package shadowerrors

import (
	"errors"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := New(BaselineMissing, "config.yml", "run rebase")
	kind, ok := KindOf(err)
	if !ok || kind != BaselineMissing {
		t.Fatalf("KindOf(%v) = (%v, %v), want (%v, true)", err, kind, ok, BaselineMissing)
	}

	if _, ok := KindOf(errors.New("plain error")); ok {
		t.Fatal("KindOf should report false for a non-shadowerrors error")
	}
}

func TestIsSentinel(t *testing.T) {
	err := New(StaleLock, "shadow/lock", "")
	if !errors.Is(err, ErrKind) {
		t.Fatal("expected errors.Is(err, ErrKind) to hold for any shadowerrors.Error")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(IOError, "shadow/config.json", "", cause)
	if !errors.Is(err, cause) {
		t.Fatal("Wrap should preserve the cause for errors.Is")
	}
}

func TestErrorMessageIncludesResourceAndNextStep(t *testing.T) {
	err := New(PartialStage, "config.yml", "stage all or none of this file")
	msg := err.Error()
	if !contains(msg, "config.yml") {
		t.Fatalf("expected the resource in the message: %q", msg)
	}
	if !contains(msg, "stage all or none") {
		t.Fatalf("expected the next-step suggestion in the message: %q", msg)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && indexOf(s, substr) >= 0
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
