package config

import (
	"fmt"
	"regexp"
	"strings"
)

// numericRe matches values that could be mistaken for a resolved
// version, e.g. "0.0.0" or "1".
var numericRe = regexp.MustCompile(`^\d+(\.\d+)*`)

// Validate checks that a loaded Config cannot produce an incomplete or
// ambiguous descriptor. Returns warnings (soft issues) and a hard error
// if the config is invalid.
func Validate(cfg *Config) (warnings []string, err error) {
	var errs []string

	// ── Fallbacks ─────────────────────────────────────────────────────────

	fb := cfg.Fallbacks
	for _, f := range []struct{ key, value string }{
		{"dirty_string", fb.DirtyString},
		{"branch", fb.Branch},
		{"commit", fb.Commit},
		{"commit_count", fb.CommitCount},
		{"remote", fb.Remote},
		{"semver", fb.Semver},
		{"stage", fb.Stage},
		{"status", fb.Status},
		{"tag", fb.Tag},
		{"version", fb.Version},
	} {
		if f.value == "" {
			errs = append(errs, fmt.Sprintf("fallbacks.%s: must not be empty", f.key))
		}
	}

	if numericRe.MatchString(fb.Semver) {
		errs = append(errs, fmt.Sprintf("fallbacks.semver: %q looks like a real version", fb.Semver))
	}
	if fb.Status == "true" || fb.Status == "false" {
		errs = append(errs, fmt.Sprintf("fallbacks.status: %q is indistinguishable from a real status", fb.Status))
	}
	switch fb.Stage {
	case "feature", "develop", "master", "release":
		errs = append(errs, fmt.Sprintf("fallbacks.stage: %q is a real stage", fb.Stage))
	}
	if numericRe.MatchString(fb.Tag) {
		warnings = append(warnings, fmt.Sprintf("fallbacks.tag: %q makes untagged versions look tagged", fb.Tag))
	}

	// ── CI ────────────────────────────────────────────────────────────────

	for i, v := range cfg.CI.RefVars {
		if v == "" {
			errs = append(errs, fmt.Sprintf("ci.ref_vars[%d]: must not be empty", i))
		}
	}
	if len(cfg.CI.RefVars) == 0 {
		warnings = append(warnings, "ci.ref_vars: empty, a detached HEAD will never be resolved to a branch")
	}

	// ── Backend ───────────────────────────────────────────────────────────

	switch cfg.Backend {
	case BackendGit, BackendGoGit:
	default:
		errs = append(errs, fmt.Sprintf("backend: unknown backend %q (supported: %s, %s)", cfg.Backend, BackendGit, BackendGoGit))
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return warnings, nil
}
