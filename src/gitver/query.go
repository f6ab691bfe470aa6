package gitver

import "context"

// Query names one version-control query.
type Query string

const (
	QueryBranch   Query = "current-branch"
	QueryRemote   Query = "remote-url"
	QueryStatus   Query = "working-tree-status"
	QueryCommit   Query = "short-commit"
	QueryDescribe Query = "describe"
	QueryCount    Query = "commit-count"
)

// Querier issues the fixed set of version-control queries a Describe run
// needs. Implementations report failures as errors and never decide on
// fallbacks themselves.
type Querier interface {
	// CurrentBranch returns the checked-out branch name, or "HEAD" when
	// the working copy is detached.
	CurrentBranch(ctx context.Context, repo string) (string, error)
	// RemoteURL returns the URL of the origin remote.
	RemoteURL(ctx context.Context, repo string) (string, error)
	// WorkingTreeStatus returns porcelain status output; empty means clean.
	WorkingTreeStatus(ctx context.Context, repo string) (string, error)
	// ShortCommit returns the abbreviated hash of HEAD.
	ShortCommit(ctx context.Context, repo string) (string, error)
	// Describe returns the nearest-tag description of HEAD, falling back
	// to the short hash when no tag is reachable and appending dirtyMark
	// when tracked files are modified.
	Describe(ctx context.Context, repo, dirtyMark string) (string, error)
	// CommitCount returns the number of commits reachable from HEAD.
	CommitCount(ctx context.Context, repo string) (string, error)
}

// Outcome is the result of one query: a raw value, or the error that
// prevented it.
type Outcome[T any] struct {
	Query Query
	Value T
	Err   error
}

// OK reports whether the query succeeded.
func (o Outcome[T]) OK() bool { return o.Err == nil }

// Run executes fn and captures its result as an Outcome for q.
func Run[T any](q Query, fn func() (T, error)) Outcome[T] {
	v, err := fn()
	if err != nil {
		var zero T
		return Outcome[T]{Query: q, Value: zero, Err: err}
	}
	return Outcome[T]{Query: q, Value: v}
}
