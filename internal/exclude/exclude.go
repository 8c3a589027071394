// Package exclude maintains the idempotent, fenced block inside the VCS
// local ignore file (spec.md §4.3). Content outside the markers is
// preserved verbatim; writes are atomic.
package exclude

import (
	"strings"

	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

const (
	startMarker = "# >>> git-shadow managed (DO NOT EDIT) >>>"
	endMarker   = "# <<< git-shadow managed <<<"
)

// Manager edits the managed block of a single exclude file.
type Manager struct {
	path string
}

// New returns a Manager bound to the exclude file at path (conventionally
// <repo>/.git/info/exclude).
func New(path string) *Manager {
	return &Manager{path: path}
}

// Add inserts entry into the managed block. Directory entries must be
// passed with their trailing '/' already appended by the caller (ops/add.go
// does this based on the registry entry's IsDirectory flag). Adding an
// entry already present in the block is a no-op, leaving the file
// byte-identical (spec.md §8 property 5).
func (m *Manager) Add(entry string) error {
	before, block, after, err := m.readParts()
	if err != nil {
		return err
	}
	for _, line := range block {
		if line == entry {
			return nil
		}
	}
	block = append(block, entry)
	return m.writeParts(before, block, after)
}

// Remove drops exactly the matching line from the managed block. When the
// block becomes empty, the markers themselves are removed too, so a repo
// that has never used git-shadow (or no longer does) has no trace of it in
// the exclude file.
func (m *Manager) Remove(entry string) error {
	before, block, after, err := m.readParts()
	if err != nil {
		return err
	}
	out := block[:0:0]
	for _, line := range block {
		if line != entry {
			out = append(out, line)
		}
	}
	return m.writeParts(before, out, after)
}

// Entries returns the current contents of the managed block, in file order.
func (m *Manager) Entries() ([]string, error) {
	_, block, _, err := m.readParts()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), block...), nil
}

// readParts splits the file into the lines before the block, the lines
// inside it, and the lines after it. A file with no markers yet is treated
// as having an empty block positioned at the end.
func (m *Manager) readParts() (before, block, after []string, err error) {
	if !atomicio.Exists(m.path) {
		return nil, nil, nil, nil
	}
	data, readErr := atomicio.ReadFile(m.path)
	if readErr != nil {
		return nil, nil, nil, shadowerrors.Wrap(shadowerrors.IOError, m.path, "", readErr)
	}

	lines := splitLines(string(data))
	startIdx, endIdx := -1, -1
	for i, line := range lines {
		if line == startMarker {
			startIdx = i
		} else if line == endMarker {
			endIdx = i
		}
	}

	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		// No well-formed block yet: everything is "before".
		return lines, nil, nil, nil
	}

	before = append([]string(nil), lines[:startIdx]...)
	block = append([]string(nil), lines[startIdx+1:endIdx]...)
	after = append([]string(nil), lines[endIdx+1:]...)
	return before, block, after, nil
}

// writeParts reassembles the file. If block is empty, the markers are
// omitted entirely, per spec.md §4.3.
func (m *Manager) writeParts(before, block, after []string) error {
	var out []string
	out = append(out, before...)
	if len(block) > 0 {
		out = append(out, startMarker)
		out = append(out, block...)
		out = append(out, endMarker)
	}
	out = append(out, after...)

	content := joinLines(out)
	if err := atomicio.WriteFile(m.path, []byte(content), 0o644); err != nil {
		return shadowerrors.Wrap(shadowerrors.IOError, m.path, "", err)
	}
	return nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
