package gitver

import "strings"

// Values of Descriptor.IsDirty when the status query succeeds.
const (
	DirtyTrue  = "true"
	DirtyFalse = "false"
)

// resolveDirty classifies the working tree status. The result is
// tri-state: DirtyTrue, DirtyFalse, or the status fallback.
func (r *run) resolveDirty() string {
	o := Run(QueryStatus, func() (string, error) {
		return r.q.WorkingTreeStatus(r.ctx, r.repo)
	})
	if !o.OK() {
		return settle(r.log, "is_dirty", o, r.fb.Status)
	}
	if strings.TrimSpace(o.Value) == "" {
		return DirtyFalse
	}
	return DirtyTrue
}
