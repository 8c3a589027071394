package engine

// StepKind discriminates the kinds of mutation PreCommit records so Rollback
// knows how to undo each one.
type StepKind int

const (
	// StepOverlayBaselineWrite records that an overlay's working-tree file
	// was overwritten with its baseline, after its prior content was
	// stashed. Rollback restores the stash to the working tree and
	// re-stages, so the index returns to its prior content.
	StepOverlayBaselineWrite StepKind = iota

	// StepOverlayStaged records that an overlay was staged through the VCS
	// adapter.
	StepOverlayStaged

	// StepPhantomStashed records that a phantom file's content was saved to
	// stash before unstaging.
	StepPhantomStashed

	// StepPhantomUnstaged records that a phantom (file or directory) was
	// unstaged through the VCS adapter.
	StepPhantomUnstaged
)

// Step is one recorded mutation, in execution order.
type Step struct {
	Kind StepKind
	Path string // registry key
}

// Transaction accumulates the ordered log of mutations performed by one
// pre-commit invocation (spec.md §4.6 rule 6). Rollback walks it in reverse.
type Transaction struct {
	Steps []Step
}

func (t *Transaction) record(kind StepKind, path string) {
	t.Steps = append(t.Steps, Step{Kind: kind, Path: path})
}
