package gitver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// releaseSemver labels a release branch whose name does not parse.
const releaseSemver Query = "release-branch-semver"

// semverPrefixRe matches a leading MAJOR.MINOR.PATCH.
var semverPrefixRe = regexp.MustCompile(`^\d+\.\d+\.\d+`)

// SemverFromBranch returns the version embedded after the last "/" of a
// release branch name, e.g. "release/2.3.0" gives "2.3.0". The suffix
// must be a strict semantic version.
func SemverFromBranch(branch string) (string, error) {
	v := branch[strings.LastIndex(branch, "/")+1:]
	if _, err := semver.StrictNewVersion(v); err != nil {
		return "", fmt.Errorf("branch %q does not name a semantic version: %w", branch, err)
	}
	return v, nil
}

// SemverFromDescribe returns the semantic version a describe output
// starts with: the text before the first "-". ok is false when the
// output has no MAJOR.MINOR.PATCH prefix, i.e. no tag was reachable.
func SemverFromDescribe(out string) (v string, ok bool) {
	prefix := semverPrefixRe.FindString(out)
	if prefix == "" {
		return "", false
	}
	candidate, _, _ := strings.Cut(out, "-")
	if _, err := semver.StrictNewVersion(candidate); err != nil {
		// Tags like "1.2.3.4" or "1.2.3_rc" only yield their numeric prefix.
		return prefix, true
	}
	return candidate, true
}

// resolveBranchSemver takes the semver from a release branch. The branch
// value is authoritative: if it does not parse, the semver fallback is
// used rather than anything describe reports.
func (r *run) resolveBranchSemver(branch string) string {
	v, err := SemverFromBranch(branch)
	return settle(r.log, "semver", Outcome[string]{Query: releaseSemver, Value: v, Err: err}, r.fb.Semver)
}
