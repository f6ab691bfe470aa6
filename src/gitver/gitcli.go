package gitver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGitNotFound is returned when the git executable is not on PATH.
var ErrGitNotFound = errors.New("git executable not found")

// QueryError is a failed git invocation. Stderr holds git's own
// diagnostic text.
type QueryError struct {
	Query  Query
	Args   []string
	Stderr string
	Err    error
}

func (e *QueryError) Error() string {
	msg := e.Stderr
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: git %s: %s", e.Query, strings.Join(e.Args, " "), msg)
}

func (e *QueryError) Unwrap() error { return e.Err }

// GitCLI answers queries by running the git executable.
type GitCLI struct {
	// Binary is the git executable. Defaults to "git".
	Binary string
}

func (g GitCLI) CurrentBranch(ctx context.Context, repo string) (string, error) {
	return g.run(ctx, repo, QueryBranch, "rev-parse", "--abbrev-ref", "HEAD")
}

func (g GitCLI) RemoteURL(ctx context.Context, repo string) (string, error) {
	return g.run(ctx, repo, QueryRemote, "config", "--get", "remote.origin.url")
}

func (g GitCLI) WorkingTreeStatus(ctx context.Context, repo string) (string, error) {
	return g.run(ctx, repo, QueryStatus, "status", "--porcelain")
}

func (g GitCLI) ShortCommit(ctx context.Context, repo string) (string, error) {
	return g.run(ctx, repo, QueryCommit, "rev-parse", "--short", "HEAD")
}

func (g GitCLI) Describe(ctx context.Context, repo, dirtyMark string) (string, error) {
	return g.run(ctx, repo, QueryDescribe, "describe", "--tags", "--always", "--dirty="+dirtyMark)
}

func (g GitCLI) CommitCount(ctx context.Context, repo string) (string, error) {
	return g.run(ctx, repo, QueryCount, "rev-list", "--count", "HEAD")
}

// run executes git in dir and returns trimmed stdout.
func (g GitCLI) run(ctx context.Context, dir string, q Query, args ...string) (string, error) {
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			err = fmt.Errorf("%w: %w", ErrGitNotFound, err)
		}
		return "", &QueryError{
			Query:  q,
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}
