package gitver

import (
	"fmt"
	"strings"
)

// Reconciliation is what a describe output yields.
type Reconciliation struct {
	// Version is the full descriptive version.
	Version string
	// Semver is the tag's semantic version, or "" when no tag was reachable.
	Semver string
	// Dirty reports whether the output carried the dirty marker.
	Dirty bool
}

// ReconcileDescribe interprets the output of a describe query. Describe
// emits one of four shapes:
//
//	d844df9                  no tag, clean
//	d844df9-DIRTY            no tag, dirty
//	0.1.5-42-g652c397        tagged, clean
//	0.1.5-42-g652c397-DIRTY  tagged, dirty
//
// Tagged output is used as the version unchanged. Without a tag the
// version is rebuilt in the tagged shape as <tag>-<count>-g<hash>, with
// fb.Tag standing in for the tag. count and hash are only called in that
// case.
func ReconcileDescribe(out string, fb Fallbacks, count, hash func() string) Reconciliation {
	dirty := fb.DirtyString != "" && strings.HasSuffix(out, fb.DirtyString)

	if v, ok := SemverFromDescribe(out); ok {
		return Reconciliation{Version: out, Semver: v, Dirty: dirty}
	}

	version := fmt.Sprintf("%s-%s-g%s", fb.Tag, count(), hash())
	if dirty {
		version += fb.DirtyString
	}
	return Reconciliation{Version: version, Dirty: dirty}
}

// resolveVersion fills version, and semver unless a release branch
// already fixed it.
func (r *run) resolveVersion() {
	o := Run(QueryDescribe, func() (string, error) {
		return r.q.Describe(r.ctx, r.repo, r.fb.DirtyString)
	})
	if !o.OK() {
		r.d.version = ptr(settle(r.log, "version", o, r.fb.Version))
		if r.d.semver == nil {
			r.d.semver = ptr(r.fb.Semver)
		}
		return
	}

	rec := ReconcileDescribe(o.Value, r.fb, r.commitCount, r.shortCommit)
	r.d.version = ptr(rec.Version)
	if r.d.semver != nil {
		if rec.Semver != "" && rec.Semver != *r.d.semver {
			r.log.Debug("release branch semver overrides tag",
				"branch_semver", *r.d.semver,
				"tag_semver", rec.Semver)
		}
		return
	}
	if rec.Semver == "" {
		r.d.semver = ptr(r.fb.Semver)
		return
	}
	r.d.semver = ptr(rec.Semver)
}

func (r *run) commitCount() string {
	return settle(r.log, "commit_count", Run(QueryCount, func() (string, error) {
		return r.q.CommitCount(r.ctx, r.repo)
	}), r.fb.CommitCount)
}
