package engine

import (
	"bytes"
	"fmt"

	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/pathcodec"
)

// PostMergeResult lists overlays whose baseline has drifted from HEAD.
type PostMergeResult struct {
	Drifted []string
}

// PostMerge compares every overlay's stored baseline against HEAD's current
// content and reports drift as advisory warnings (spec.md §4.8). It never
// mutates anything; `rebase` is the only way to clear the drift.
func (c *Context) PostMerge() (*PostMergeResult, error) {
	reg, err := c.LoadRegistry()
	if err != nil {
		return nil, err
	}

	result := &PostMergeResult{}
	for _, e := range reg.Overlays() {
		baseline, err := atomicio.ReadFile(c.Layout.BaselinePath(pathcodec.Encode(e.Path)))
		if err != nil {
			continue // covered by doctor's baselines-present check, not fatal here
		}
		headBytes, err := c.Adapter.HeadBlob(e.Path)
		if err != nil {
			continue // file may have been deleted upstream; doctor surfaces that
		}
		if !bytes.Equal(baseline, headBytes) {
			result.Drifted = append(result.Drifted, e.Path)
		}
	}
	return result, nil
}

// Warnings renders a PostMergeResult as advisory strings.
func (r *PostMergeResult) Warnings() []string {
	var out []string
	for _, p := range r.Drifted {
		out = append(out, fmt.Sprintf("%s: baseline is behind HEAD; run `git-shadow rebase %s`", p, p))
	}
	return out
}
