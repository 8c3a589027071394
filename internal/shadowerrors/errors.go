// Package shadowerrors defines the error-kind vocabulary shared by every
// git-shadow component, so the CLI layer can render a consistent
// kind/resource/next-step message regardless of which package failed.
package shadowerrors

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure. Kinds are not Go error types on their
// own; they are attached to a *Error so callers can branch with errors.Is
// against the sentinel below, or inspect Kind for presentation.
type Kind string

const (
	ConcurrentOperation Kind = "concurrent-operation"
	StaleLock           Kind = "stale-lock"
	StashRemnant        Kind = "stash-remnant"
	FileMissing         Kind = "file-missing"
	BaselineMissing     Kind = "baseline-missing"
	PartialStage        Kind = "partial-stage"
	NotTracked          Kind = "not-tracked"
	AlreadyTracked      Kind = "already-tracked"
	BinaryRejected      Kind = "binary-rejected"
	Oversize            Kind = "oversize"
	AlreadyManaged      Kind = "already-managed"
	NotManaged          Kind = "not-managed"
	VCSCommandFailed    Kind = "vcs-command-failed"
	MergeConflict       Kind = "merge-conflict"
	IOError             Kind = "io-error"
	RegistryCorrupt     Kind = "registry-corrupt"
)

// ErrKind is the sentinel every *Error wraps, so callers can test
// errors.Is(err, shadowerrors.ErrKind) without caring about the specific kind.
var ErrKind = errors.New("git-shadow error")

// Error is a structured failure: a kind, the path or resource involved, a
// human next-step suggestion, and an optional wrapped cause.
type Error struct {
	Kind       Kind
	Resource   string
	NextStep   string
	Cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Resource)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.NextStep != "" {
		msg = fmt.Sprintf("%s — %s", msg, e.NextStep)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrKind
}

func (e *Error) Is(target error) bool {
	return target == ErrKind
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, resource, nextStep string) *Error {
	return &Error{Kind: kind, Resource: resource, NextStep: nextStep}
}

// Wrap builds an *Error around an existing cause.
func Wrap(kind Kind, resource, nextStep string, cause error) *Error {
	return &Error{Kind: kind, Resource: resource, NextStep: nextStep, Cause: cause}
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *Error. The second return is false if no *Error is found in the chain.
func KindOf(err error) (Kind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}
