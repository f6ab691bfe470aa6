// Package gitver derives a normalized descriptor of a git working copy:
// branch, commit, dirty state, remote, release stage, and both a strict
// semantic version and a full descriptive version.
//
// Every field is resolved from an independently fallible query. A failed
// query is logged and replaced by its configured fallback, so a
// Descriptor is always complete.
package gitver

import (
	"context"
	"log/slog"
	"os"
)

// Options controls a single Describe run.
type Options struct {
	// Fallbacks are substituted for unresolvable fields. The zero value
	// means DefaultFallbacks.
	Fallbacks Fallbacks

	// CIRefVars are the environment variables consulted, in order, when
	// the branch query reports a detached HEAD.
	CIRefVars []string

	// Getenv looks up environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	// Logger receives query failures and classification warnings.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultCIRefVars lists the CI variables that name the ref being built.
var DefaultCIRefVars = []string{"CI_COMMIT_REF_NAME", "GITHUB_REF_NAME"}

// Describe resolves a Descriptor for the working copy at repoPath.
// Each call starts from an empty draft; nothing carries over between calls.
func Describe(ctx context.Context, q Querier, repoPath string, opts Options) Descriptor {
	r := &run{
		ctx:     ctx,
		q:       q,
		repo:    repoPath,
		fb:      opts.Fallbacks,
		refVars: opts.CIRefVars,
		getenv:  opts.Getenv,
		log:     opts.Logger,
	}
	if r.fb == (Fallbacks{}) {
		r.fb = DefaultFallbacks()
	}
	if r.refVars == nil {
		r.refVars = DefaultCIRefVars
	}
	if r.getenv == nil {
		r.getenv = os.Getenv
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	r.log = r.log.With("repo", repoPath)
	return r.describe()
}

// run holds the state of one Describe call.
type run struct {
	ctx     context.Context
	q       Querier
	repo    string
	fb      Fallbacks
	refVars []string
	getenv  func(string) string
	log     *slog.Logger

	// commit is the settled short hash, resolved at most once per run.
	commit *string
	d      draft
}

func (r *run) describe() Descriptor {
	r.d.location = ptr(r.repo)

	branch, ok := r.resolveBranch()
	r.d.branch = ptr(branch)

	stage := r.resolveStage(branch, ok)
	r.d.stage = ptr(stage)

	if Stage(stage) == StageRelease {
		r.d.semver = ptr(r.resolveBranchSemver(branch))
	}

	r.resolveVersion()

	r.d.remote = ptr(settle(r.log, "remote", Run(QueryRemote, func() (string, error) {
		return r.q.RemoteURL(r.ctx, r.repo)
	}), r.fb.Remote))
	r.d.dirty = ptr(r.resolveDirty())
	r.d.commit = ptr(r.shortCommit())

	return r.d.seal()
}

// shortCommit returns the settled short hash, querying on first use.
func (r *run) shortCommit() string {
	if r.commit == nil {
		r.commit = ptr(settle(r.log, "commit", Run(QueryCommit, func() (string, error) {
			return r.q.ShortCommit(r.ctx, r.repo)
		}), r.fb.Commit))
	}
	return *r.commit
}

func ptr[T any](v T) *T { return &v }
