package gitver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileDescribe(t *testing.T) {
	fb := DefaultFallbacks()

	tests := []struct {
		name string
		out  string
		want Reconciliation
		lazy bool
	}{
		{
			name: "untagged clean",
			out:  "d844df9",
			want: Reconciliation{Version: "NOTAG-17-gd844df9"},
			lazy: true,
		},
		{
			name: "untagged dirty",
			out:  "d844df9-DIRTY",
			want: Reconciliation{Version: "NOTAG-17-gd844df9-DIRTY", Dirty: true},
			lazy: true,
		},
		{
			name: "tagged clean",
			out:  "0.1.5-42-g652c397",
			want: Reconciliation{Version: "0.1.5-42-g652c397", Semver: "0.1.5"},
		},
		{
			name: "tagged dirty",
			out:  "0.1.5-42-g652c397-DIRTY",
			want: Reconciliation{Version: "0.1.5-42-g652c397-DIRTY", Semver: "0.1.5", Dirty: true},
		},
		{
			name: "exact tag",
			out:  "1.0.0",
			want: Reconciliation{Version: "1.0.0", Semver: "1.0.0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := 0
			count := func() string { called++; return "17" }
			hash := func() string { called++; return "d844df9" }

			got := ReconcileDescribe(tt.out, fb, count, hash)
			assert.Equal(t, tt.want, got)
			if tt.lazy {
				assert.Equal(t, 2, called)
			} else {
				assert.Zero(t, called, "count and hash must not be queried for tagged output")
			}
		})
	}
}

func TestReconcileDescribeCustomFallbacks(t *testing.T) {
	fb := DefaultFallbacks()
	fb.Tag = "0.0.0"
	fb.DirtyString = ".dirty"

	got := ReconcileDescribe("abc1234.dirty", fb,
		func() string { return "3" },
		func() string { return "abc1234" })
	assert.Equal(t, "0.0.0-3-gabc1234.dirty", got.Version)
	assert.True(t, got.Dirty)
	// The rebuilt version is never treated as a tag.
	assert.Empty(t, got.Semver)
}
