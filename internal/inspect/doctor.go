package inspect

import (
	"bytes"
	"os"
	"os/exec"

	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/engine"
	"github.com/tanabe1478/git-shadow/internal/exclude"
	"github.com/tanabe1478/git-shadow/internal/pathcodec"
	"github.com/tanabe1478/git-shadow/internal/registry"
)

// Severity classifies a CheckResult.
type Severity string

const (
	OK   Severity = "ok"
	Warn Severity = "warn"
	Fail Severity = "fail"
)

// CheckResult is one doctor check's outcome. Rendering it (color, icons) is
// the CLI layer's job per spec.md §1 — doctor's presentation is peripheral;
// the checks themselves are not.
type CheckResult struct {
	Name     string
	Severity Severity
	Detail   string
}

// Check is one named, independently runnable doctor check, modeled on the
// teacher's doctor package: a registry of named checks run in sequence
// rather than one monolithic function.
type Check struct {
	Name string
	Run  func(c *engine.Context, reg *registry.Registry, excl *exclude.Manager) CheckResult
}

// Doctor runs the fixed, ordered check list from SPEC_FULL.md §4.14.
type Doctor struct {
	checks []Check
}

// NewDoctor returns a Doctor pre-registered with every built-in check.
func NewDoctor() *Doctor {
	d := &Doctor{}
	d.Register(checkGitAvailable)
	d.Register(checkRepoDetected)
	d.Register(checkRegistryLoads)
	d.Register(checkLockState)
	d.Register(checkStashState)
	d.Register(checkSuspendedState)
	d.Register(checkBaselinesPresent)
	d.Register(checkOverlayDrift)
	d.Register(checkExcludeBlockConsistent)
	return d
}

// Register appends a check to the run list.
func (d *Doctor) Register(c Check) {
	d.checks = append(d.checks, c)
}

// Run executes every registered check in order. reg may be nil if loading it
// already failed; checks that need it degrade to Fail with that detail.
func (d *Doctor) Run(c *engine.Context, reg *registry.Registry, excl *exclude.Manager) []CheckResult {
	results := make([]CheckResult, 0, len(d.checks))
	for _, check := range d.checks {
		results = append(results, check.Run(c, reg, excl))
	}
	return results
}

func named(name string, run func(c *engine.Context, reg *registry.Registry, excl *exclude.Manager) CheckResult) Check {
	return Check{Name: name, Run: run}
}

var checkGitAvailable = named("git-available", func(c *engine.Context, reg *registry.Registry, excl *exclude.Manager) CheckResult {
	if _, err := exec.LookPath("git"); err != nil {
		return CheckResult{Name: "git-available", Severity: Fail, Detail: "git binary not found on PATH"}
	}
	return CheckResult{Name: "git-available", Severity: OK}
})

var checkRepoDetected = named("repo-detected", func(c *engine.Context, reg *registry.Registry, excl *exclude.Manager) CheckResult {
	if c == nil || c.Adapter == nil || c.Adapter.RepoRoot() == "" {
		return CheckResult{Name: "repo-detected", Severity: Fail, Detail: "not inside a git repository"}
	}
	return CheckResult{Name: "repo-detected", Severity: OK, Detail: c.Adapter.RepoRoot()}
})

var checkRegistryLoads = named("registry-loads", func(c *engine.Context, reg *registry.Registry, excl *exclude.Manager) CheckResult {
	if reg == nil {
		return CheckResult{Name: "registry-loads", Severity: Fail, Detail: "registry-corrupt: see error above"}
	}
	return CheckResult{Name: "registry-loads", Severity: OK}
})

var checkLockState = named("lock-state", func(c *engine.Context, reg *registry.Registry, excl *exclude.Manager) CheckResult {
	info, held := c.Lock.Held()
	if !held {
		return CheckResult{Name: "lock-state", Severity: OK, Detail: "no lock"}
	}
	if info.Alive {
		return CheckResult{Name: "lock-state", Severity: Warn, Detail: "commit cycle in progress"}
	}
	return CheckResult{Name: "lock-state", Severity: Fail, Detail: "stale lock; run `git-shadow restore`"}
})

var checkStashState = named("stash-state", func(c *engine.Context, reg *registry.Registry, excl *exclude.Manager) CheckResult {
	entries, err := os.ReadDir(c.Layout.StashDir)
	if err != nil || len(entries) == 0 {
		return CheckResult{Name: "stash-state", Severity: OK, Detail: "empty"}
	}
	return CheckResult{Name: "stash-state", Severity: Fail,
		Detail: "stash has remnants; run `git-shadow restore`"}
})

var checkSuspendedState = named("suspended-state", func(c *engine.Context, reg *registry.Registry, excl *exclude.Manager) CheckResult {
	entries, err := os.ReadDir(c.Layout.SuspendedDir)
	if err != nil || len(entries) == 0 {
		return CheckResult{Name: "suspended-state", Severity: OK, Detail: "empty"}
	}
	return CheckResult{Name: "suspended-state", Severity: Warn,
		Detail: "suspended entries pending; run `git-shadow resume`"}
})

var checkBaselinesPresent = named("baselines-present", func(c *engine.Context, reg *registry.Registry, excl *exclude.Manager) CheckResult {
	if reg == nil {
		return CheckResult{Name: "baselines-present", Severity: Fail, Detail: "registry unavailable"}
	}
	var missing []string
	for _, e := range reg.Overlays() {
		if !atomicio.IsRegularFile(c.Layout.BaselinePath(pathcodec.Encode(e.Path))) {
			missing = append(missing, e.Path)
		}
	}
	if len(missing) == 0 {
		return CheckResult{Name: "baselines-present", Severity: OK}
	}
	return CheckResult{Name: "baselines-present", Severity: Fail, Detail: joinList(missing)}
})

var checkOverlayDrift = named("overlay-drift", func(c *engine.Context, reg *registry.Registry, excl *exclude.Manager) CheckResult {
	if reg == nil {
		return CheckResult{Name: "overlay-drift", Severity: Fail, Detail: "registry unavailable"}
	}
	var drifted []string
	for _, e := range reg.Overlays() {
		baseline, err := atomicio.ReadFile(c.Layout.BaselinePath(pathcodec.Encode(e.Path)))
		if err != nil {
			continue
		}
		head, err := c.Adapter.HeadBlob(e.Path)
		if err != nil {
			continue
		}
		if !bytes.Equal(baseline, head) {
			drifted = append(drifted, e.Path)
		}
	}
	if len(drifted) == 0 {
		return CheckResult{Name: "overlay-drift", Severity: OK}
	}
	return CheckResult{Name: "overlay-drift", Severity: Warn, Detail: joinList(drifted)}
})

var checkExcludeBlockConsistent = named("exclude-block-consistent", func(c *engine.Context, reg *registry.Registry, excl *exclude.Manager) CheckResult {
	if reg == nil {
		return CheckResult{Name: "exclude-block-consistent", Severity: Fail, Detail: "registry unavailable"}
	}
	if excl == nil {
		return CheckResult{Name: "exclude-block-consistent", Severity: OK}
	}
	want := map[string]bool{}
	for _, e := range reg.Phantoms() {
		if e.ExcludeMode != registry.ExcludeManagedIgnore {
			continue
		}
		line := e.Path
		if e.IsDirectory {
			line += "/"
		}
		want[line] = true
	}

	have, err := excl.Entries()
	if err != nil {
		return CheckResult{Name: "exclude-block-consistent", Severity: Fail, Detail: "could not read exclude file"}
	}
	haveSet := map[string]bool{}
	for _, l := range have {
		haveSet[l] = true
	}

	var mismatches []string
	for l := range want {
		if !haveSet[l] {
			mismatches = append(mismatches, "missing:"+l)
		}
	}
	for l := range haveSet {
		if !want[l] {
			mismatches = append(mismatches, "extra:"+l)
		}
	}
	if len(mismatches) == 0 {
		return CheckResult{Name: "exclude-block-consistent", Severity: OK}
	}
	return CheckResult{Name: "exclude-block-consistent", Severity: Warn, Detail: joinList(mismatches)}
})

func joinList(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}
