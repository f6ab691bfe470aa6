package gitver

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
)

type result struct {
	v   string
	err error
}

func ok(v string) result     { return result{v: v} }
func fail(msg string) result { return result{err: errors.New(msg)} }

// stubQuerier answers each query with a canned result and counts calls.
type stubQuerier struct {
	branch, remote, status, commit, describe, count result

	calls     map[Query]int
	dirtyMark string
}

func (s *stubQuerier) hit(q Query, r result) (string, error) {
	if s.calls == nil {
		s.calls = make(map[Query]int)
	}
	s.calls[q]++
	return r.v, r.err
}

func (s *stubQuerier) CurrentBranch(context.Context, string) (string, error) {
	return s.hit(QueryBranch, s.branch)
}

func (s *stubQuerier) RemoteURL(context.Context, string) (string, error) {
	return s.hit(QueryRemote, s.remote)
}

func (s *stubQuerier) WorkingTreeStatus(context.Context, string) (string, error) {
	return s.hit(QueryStatus, s.status)
}

func (s *stubQuerier) ShortCommit(context.Context, string) (string, error) {
	return s.hit(QueryCommit, s.commit)
}

func (s *stubQuerier) Describe(_ context.Context, _ string, dirtyMark string) (string, error) {
	s.dirtyMark = dirtyMark
	return s.hit(QueryDescribe, s.describe)
}

func (s *stubQuerier) CommitCount(context.Context, string) (string, error) {
	return s.hit(QueryCount, s.count)
}

// healthy returns a stub for a clean, tagged checkout of develop.
func healthy() *stubQuerier {
	return &stubQuerier{
		branch:   ok("develop"),
		remote:   ok("git@example.com:acme/widget.git"),
		status:   ok(""),
		commit:   ok("652c397"),
		describe: ok("0.1.5-42-g652c397"),
		count:    ok("42"),
	}
}

func testOptions(env map[string]string) (Options, *bytes.Buffer) {
	var buf bytes.Buffer
	return Options{
		Fallbacks: DefaultFallbacks(),
		Getenv:    func(k string) string { return env[k] },
		Logger:    slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}, &buf
}
