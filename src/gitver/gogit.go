package gitver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// shortHashLen matches git's default abbreviation.
const shortHashLen = 7

// GoGit answers queries in-process with go-git, for environments without
// a git executable.
type GoGit struct{}

func (GoGit) open(repo string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(repo, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
}

func (g GoGit) head(repo string) (*git.Repository, *plumbing.Reference, error) {
	r, err := g.open(repo)
	if err != nil {
		return nil, nil, fmt.Errorf("opening repository: %w", err)
	}
	ref, err := r.Head()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	return r, ref, nil
}

func (g GoGit) CurrentBranch(_ context.Context, repo string) (string, error) {
	_, ref, err := g.head(repo)
	if err != nil {
		return "", err
	}
	if !ref.Name().IsBranch() {
		return detachedHead, nil
	}
	return ref.Name().Short(), nil
}

func (g GoGit) RemoteURL(_ context.Context, repo string) (string, error) {
	r, err := g.open(repo)
	if err != nil {
		return "", fmt.Errorf("opening repository: %w", err)
	}
	rem, err := r.Remote(git.DefaultRemoteName)
	if err != nil {
		return "", fmt.Errorf("remote %s: %w", git.DefaultRemoteName, err)
	}
	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", git.DefaultRemoteName)
	}
	return urls[0], nil
}

func (g GoGit) WorkingTreeStatus(_ context.Context, repo string) (string, error) {
	status, err := g.status(repo)
	if err != nil {
		return "", err
	}

	paths := make([]string, 0, len(status))
	for p, s := range status {
		if s.Staging == git.Unmodified && s.Worktree == git.Unmodified {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	lines := make([]string, 0, len(paths))
	for _, p := range paths {
		s := status[p]
		lines = append(lines, fmt.Sprintf("%c%c %s", s.Staging, s.Worktree, p))
	}
	return strings.Join(lines, "\n"), nil
}

func (g GoGit) ShortCommit(_ context.Context, repo string) (string, error) {
	_, ref, err := g.head(repo)
	if err != nil {
		return "", err
	}
	return shortHash(ref.Hash()), nil
}

func (g GoGit) CommitCount(ctx context.Context, repo string) (string, error) {
	r, ref, err := g.head(repo)
	if err != nil {
		return "", err
	}
	iter, err := r.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return "", fmt.Errorf("reading log: %w", err)
	}
	defer iter.Close()

	n := 0
	err = iter.ForEach(func(*object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("counting commits: %w", err)
	}
	return strconv.Itoa(n), nil
}

func (g GoGit) Describe(ctx context.Context, repo, dirtyMark string) (string, error) {
	r, ref, err := g.head(repo)
	if err != nil {
		return "", err
	}

	tags, err := tagsByCommit(r)
	if err != nil {
		return "", err
	}

	tag, depth, err := nearestTag(ctx, r, ref.Hash(), tags)
	if err != nil {
		return "", err
	}

	var out string
	switch {
	case tag == "":
		out = shortHash(ref.Hash())
	case depth == 0:
		out = tag
	default:
		out = fmt.Sprintf("%s-%d-g%s", tag, depth, shortHash(ref.Hash()))
	}

	dirty, err := g.trackedChanges(repo)
	if err != nil {
		return "", err
	}
	if dirty {
		out += dirtyMark
	}
	return out, nil
}

func (g GoGit) status(repo string) (git.Status, error) {
	r, err := g.open(repo)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}
	return status, nil
}

// trackedChanges reports modifications to tracked files. Untracked files
// do not make describe output dirty.
func (g GoGit) trackedChanges(repo string) (bool, error) {
	status, err := g.status(repo)
	if err != nil {
		return false, err
	}
	for _, s := range status {
		if s.Worktree == git.Untracked {
			continue
		}
		if s.Staging != git.Unmodified || s.Worktree != git.Unmodified {
			return true, nil
		}
	}
	return false, nil
}

// tagsByCommit maps each tagged commit to its preferred tag name.
func tagsByCommit(r *git.Repository) (map[plumbing.Hash]string, error) {
	iter, err := r.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	tags := make(map[plumbing.Hash]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		obj, err := r.TagObject(target)
		switch {
		case err == nil:
			c, err := obj.Commit()
			if err != nil {
				return nil // tag of a non-commit object
			}
			target = c.Hash
		case !errors.Is(err, plumbing.ErrObjectNotFound):
			return err
		}

		name := ref.Name().Short()
		if cur, ok := tags[target]; !ok || tagLess(cur, name) {
			tags[target] = name
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	return tags, nil
}

// tagLess orders tags by semantic version when both parse, else by name.
func tagLess(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.LessThan(vb)
	}
	return a < b
}

// nearestTag returns the reachable tag with the fewest commits between it
// and start. Like git describe, the distance counts commits reachable from
// start but not from the tag. Ties go to the highest version.
func nearestTag(ctx context.Context, r *git.Repository, start plumbing.Hash, tags map[plumbing.Hash]string) (string, int, error) {
	if len(tags) == 0 {
		return "", 0, nil
	}

	reach, err := ancestors(ctx, r, start)
	if err != nil {
		return "", 0, err
	}

	best, bestDepth := "", -1
	for h, name := range tags {
		if !reach[h] {
			continue
		}
		tagReach, err := ancestors(ctx, r, h)
		if err != nil {
			return "", 0, err
		}
		// Every ancestor of a reachable tag is also an ancestor of start.
		depth := len(reach) - len(tagReach)
		if bestDepth < 0 || depth < bestDepth || (depth == bestDepth && tagLess(best, name)) {
			best, bestDepth = name, depth
		}
	}
	if bestDepth < 0 {
		return "", 0, nil
	}
	return best, bestDepth, nil
}

// ancestors returns start and every commit reachable from it.
func ancestors(ctx context.Context, r *git.Repository, start plumbing.Hash) (map[plumbing.Hash]bool, error) {
	seen := map[plumbing.Hash]bool{start: true}
	queue := []plumbing.Hash{start}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h := queue[0]
		queue = queue[1:]

		c, err := r.CommitObject(h)
		if err != nil {
			return nil, fmt.Errorf("reading commit %s: %w", h, err)
		}
		for _, p := range c.ParentHashes {
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}
	return seen, nil
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:shortHashLen]
}
