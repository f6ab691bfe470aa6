package gitver

// detachedHead is what the branch query reports for a detached working copy.
const detachedHead = "HEAD"

// resolveBranch returns the branch name and whether it came from a
// successful query. A detached HEAD is replaced by the first non-empty CI
// ref variable.
func (r *run) resolveBranch() (string, bool) {
	o := Run(QueryBranch, func() (string, error) {
		return r.q.CurrentBranch(r.ctx, r.repo)
	})
	if !o.OK() {
		return settle(r.log, "branch", o, r.fb.Branch), false
	}

	branch := o.Value
	if branch == detachedHead {
		if name, ref := ciRefName(r.getenv, r.refVars); ref != "" {
			r.log.Info("detached HEAD, using CI ref name", "var", name, "branch", ref)
			branch = ref
		}
	}
	return branch, true
}

// ciRefName returns the first CI ref variable that is set, with its value.
func ciRefName(getenv func(string) string, vars []string) (string, string) {
	for _, name := range vars {
		if v := getenv(name); v != "" {
			return name, v
		}
	}
	return "", ""
}

