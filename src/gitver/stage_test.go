package gitver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStage(t *testing.T) {
	tests := []struct {
		branch string
		want   Stage
		ok     bool
	}{
		{"feature/login", StageFeature, true},
		{"feature/release/1.0.0", StageFeature, true},
		{"develop", StageDevelop, true},
		{"master", StageMaster, true},
		{"release/2.3.0", StageRelease, true},
		{"release/", StageRelease, true},
		{"main", "", false},
		{"hotfix/1.0.1", "", false},
		{"developer", "", false},
		{"feature", "", false},
		{"HEAD", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.branch, func(t *testing.T) {
			got, ok := ClassifyStage(tt.branch)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStageRulesIndependently(t *testing.T) {
	byName := map[string]stageRule{}
	for _, r := range stageRules {
		byName[r.name] = r
	}

	feature := byName["feature-prefix"]
	assert.True(t, feature.match("feature/x"))
	assert.False(t, feature.match("release/x"))
	assert.Equal(t, StageFeature, feature.stage("feature/x"))

	mainline := byName["mainline"]
	assert.True(t, mainline.match("develop"))
	assert.True(t, mainline.match("master"))
	assert.False(t, mainline.match("main"))
	assert.Equal(t, StageMaster, mainline.stage("master"))

	release := byName["release-prefix"]
	assert.True(t, release.match("release/1.0.0"))
	assert.False(t, release.match("releases/1.0.0"))
	assert.Equal(t, StageRelease, release.stage("release/1.0.0"))
}
