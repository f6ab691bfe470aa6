package gitver

import "strings"

// Stage is the release-process classification of a branch.
type Stage string

const (
	StageFeature Stage = "feature"
	StageDevelop Stage = "develop"
	StageMaster  Stage = "master"
	StageRelease Stage = "release"
)

// stageRule maps matching branch names to a stage.
type stageRule struct {
	name  string
	match func(branch string) bool
	stage func(branch string) Stage
}

// stageRules are evaluated top to bottom; the first match wins.
var stageRules = []stageRule{
	{
		name:  "feature-prefix",
		match: hasPrefix("feature/"),
		stage: always(StageFeature),
	},
	{
		name: "mainline",
		match: func(b string) bool {
			return b == string(StageDevelop) || b == string(StageMaster)
		},
		stage: func(b string) Stage { return Stage(b) },
	},
	{
		name:  "release-prefix",
		match: hasPrefix("release/"),
		stage: always(StageRelease),
	},
}

// ClassifyStage returns the stage for branch. ok is false when no rule
// matches.
func ClassifyStage(branch string) (stage Stage, ok bool) {
	for _, rule := range stageRules {
		if rule.match(branch) {
			return rule.stage(branch), true
		}
	}
	return "", false
}

// resolveStage classifies branch, or returns the stage fallback when the
// branch query failed or no rule matched.
func (r *run) resolveStage(branch string, branchOK bool) string {
	if !branchOK {
		return r.fb.Stage
	}
	stage, ok := ClassifyStage(branch)
	if !ok {
		r.log.Warn("unexpected branch, using stage fallback",
			"branch", branch,
			"fallback", r.fb.Stage)
		return r.fb.Stage
	}
	return string(stage)
}

func hasPrefix(prefix string) func(string) bool {
	return func(b string) bool { return strings.HasPrefix(b, prefix) }
}

func always(s Stage) func(string) Stage {
	return func(string) Stage { return s }
}
