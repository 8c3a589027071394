// Package registry is the persistent JSON record of every managed entry
// (spec.md §3, §4.2). It loads tolerantly (unknown fields ignored, missing
// is_directory defaults to false) and saves atomically.
package registry

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/pathcodec"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

// Type discriminates the two entry kinds.
type Type string

const (
	TypeOverlay Type = "overlay"
	TypePhantom Type = "phantom"
)

// ExcludeMode controls whether an entry is mirrored into the exclude file's
// managed section.
type ExcludeMode string

const (
	ExcludeManagedIgnore ExcludeMode = "git_info_exclude"
	ExcludeNone          ExcludeMode = "none"
)

// Entry is one managed unit: an overlay or a phantom (file or directory).
type Entry struct {
	Path           string      `json:"-"` // registry key; not duplicated into the JSON value
	Type           Type        `json:"type"`
	BaselineCommit string      `json:"baseline_commit,omitempty"`
	ExcludeMode    ExcludeMode `json:"exclude_mode"`
	IsDirectory    bool        `json:"is_directory,omitempty"`
	AddedAt        string      `json:"added_at"`
}

// IsOverlay reports whether e is an overlay entry.
func (e *Entry) IsOverlay() bool { return e.Type == TypeOverlay }

// IsPhantom reports whether e is a phantom entry.
func (e *Entry) IsPhantom() bool { return e.Type == TypePhantom }

// document is the on-disk JSON shape (spec.md §6's "Registry format").
type document struct {
	Version int                     `json:"version"`
	Files   map[string]*entryFields `json:"files"`
}

// entryFields mirrors Entry but without the Path field, matching the
// per-key JSON object in the registry file.
type entryFields struct {
	Type           Type        `json:"type"`
	BaselineCommit string      `json:"baseline_commit,omitempty"`
	ExcludeMode    ExcludeMode `json:"exclude_mode"`
	IsDirectory    bool        `json:"is_directory,omitempty"`
	AddedAt        string      `json:"added_at"`
}

const currentVersion = 1

// Registry holds the in-memory entry set and the path it was loaded from.
type Registry struct {
	path    string
	version int
	entries map[string]*Entry
}

// New returns an empty Registry bound to path, for use before the first Save.
func New(path string) *Registry {
	return &Registry{path: path, version: currentVersion, entries: map[string]*Entry{}}
}

// Load reads and parses the registry at path. A missing file is reported as
// an empty registry rather than an error, since a repository with
// git-shadow installed but nothing added yet has no registry file.
// Corruption (malformed JSON) is reported as RegistryCorrupt, which is fatal
// at load time per spec.md §7.
func Load(path string) (*Registry, error) {
	if !atomicio.Exists(path) {
		return New(path), nil
	}
	data, err := atomicio.ReadFile(path)
	if err != nil {
		return nil, shadowerrors.Wrap(shadowerrors.IOError, path, "", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, shadowerrors.Wrap(shadowerrors.RegistryCorrupt, path,
			"the registry file is not valid JSON; restore it from a backup or re-add entries", err)
	}

	r := &Registry{path: path, version: doc.Version, entries: map[string]*Entry{}}
	if r.version == 0 {
		r.version = currentVersion
	}
	for key, fields := range doc.Files {
		if fields == nil {
			continue
		}
		r.entries[key] = &Entry{
			Path:           key,
			Type:           fields.Type,
			BaselineCommit: fields.BaselineCommit,
			ExcludeMode:    fields.ExcludeMode,
			IsDirectory:    fields.IsDirectory, // absent => false, Go zero value
			AddedAt:        fields.AddedAt,
		}
	}
	return r, nil
}

// Save atomically writes the registry back to its bound path.
func (r *Registry) Save() error {
	doc := document{Version: r.version, Files: map[string]*entryFields{}}
	for key, e := range r.entries {
		doc.Files[key] = &entryFields{
			Type:           e.Type,
			BaselineCommit: e.BaselineCommit,
			ExcludeMode:    e.ExcludeMode,
			IsDirectory:    e.IsDirectory,
			AddedAt:        e.AddedAt,
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return shadowerrors.Wrap(shadowerrors.IOError, r.path, "", err)
	}
	if err := atomicio.WriteFile(r.path, data, 0o644); err != nil {
		return shadowerrors.Wrap(shadowerrors.IOError, r.path, "", err)
	}
	return nil
}

// Get returns the entry for path, if one exists.
func (r *Registry) Get(path string) (*Entry, bool) {
	e, ok := r.entries[pathcodec.Normalize(path)]
	return e, ok
}

// All returns every entry, sorted by key, so callers that iterate (the
// pre-commit engine in particular) get a deterministic, repeatable order.
func (r *Registry) All() []*Entry {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.entries[k])
	}
	return out
}

// Overlays returns every overlay entry, in key order.
func (r *Registry) Overlays() []*Entry {
	var out []*Entry
	for _, e := range r.All() {
		if e.IsOverlay() {
			out = append(out, e)
		}
	}
	return out
}

// Phantoms returns every phantom entry, in key order.
func (r *Registry) Phantoms() []*Entry {
	var out []*Entry
	for _, e := range r.All() {
		if e.IsPhantom() {
			out = append(out, e)
		}
	}
	return out
}

// AddOverlay registers a new overlay entry. It fails with AlreadyManaged if
// the key already exists, or if a case-variant of the key already exists
// (spec.md §9's open question on case-insensitive filesystems, resolved
// defensively: treat case-variants as a collision rather than silently
// shadowing one entry with another).
func (r *Registry) AddOverlay(path, baselineCommit string) (*Entry, error) {
	key := pathcodec.Normalize(path)
	if err := r.checkCollision(key); err != nil {
		return nil, err
	}
	e := &Entry{
		Path:           key,
		Type:           TypeOverlay,
		BaselineCommit: baselineCommit,
		ExcludeMode:    ExcludeNone,
		AddedAt:        time.Now().UTC().Format(time.RFC3339),
	}
	r.entries[key] = e
	return e, nil
}

// AddPhantom registers a new phantom entry (file or directory).
func (r *Registry) AddPhantom(path string, mode ExcludeMode, isDirectory bool) (*Entry, error) {
	key := pathcodec.Normalize(path)
	if err := r.checkCollision(key); err != nil {
		return nil, err
	}
	e := &Entry{
		Path:        key,
		Type:        TypePhantom,
		ExcludeMode: mode,
		IsDirectory: isDirectory,
		AddedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	r.entries[key] = e
	return e, nil
}

// Remove drops the entry for path. Reports NotManaged if no such entry
// exists.
func (r *Registry) Remove(path string) error {
	key := pathcodec.Normalize(path)
	if _, ok := r.entries[key]; !ok {
		return shadowerrors.New(shadowerrors.NotManaged, key, "")
	}
	delete(r.entries, key)
	return nil
}

// UpdateBaselineCommit sets the stored baseline_commit for an overlay entry,
// used by rebase after refreshing the baseline.
func (r *Registry) UpdateBaselineCommit(path, commit string) error {
	key := pathcodec.Normalize(path)
	e, ok := r.entries[key]
	if !ok {
		return shadowerrors.New(shadowerrors.NotManaged, key, "")
	}
	e.BaselineCommit = commit
	return nil
}

func (r *Registry) checkCollision(key string) error {
	if _, ok := r.entries[key]; ok {
		return shadowerrors.New(shadowerrors.AlreadyManaged, key, "")
	}
	lower := strings.ToLower(key)
	for existing := range r.entries {
		if existing != key && strings.ToLower(existing) == lower {
			return shadowerrors.New(shadowerrors.AlreadyManaged, key,
				fmt.Sprintf("an entry for %q already exists and differs only in case", existing))
		}
	}
	return nil
}
