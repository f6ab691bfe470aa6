package gitver

import "log/slog"

// Fallbacks are the configured defaults substituted for fields whose
// query or derivation failed. DirtyString is the marker appended to a
// describe output when the working tree has modifications.
type Fallbacks struct {
	DirtyString string
	Branch      string
	Commit      string
	CommitCount string
	Remote      string
	Semver      string
	Stage       string
	Status      string
	Tag         string
	Version     string
}

// DefaultFallbacks returns the built-in fallback set.
func DefaultFallbacks() Fallbacks {
	return Fallbacks{
		DirtyString: "-DIRTY",
		Branch:      "NOBRANCH",
		Commit:      "NOCOMMIT",
		CommitCount: "NOCOUNT",
		Remote:      "NOREMOTE",
		Semver:      "NOSEMVER",
		Stage:       "NOSTAGE",
		Status:      "NOSTATUS",
		Tag:         "NOTAG",
		Version:     "NOVERSION",
	}
}

// settle returns the outcome's value. On failure it logs the original
// error for field and returns fallback instead.
func settle(log *slog.Logger, field string, o Outcome[string], fallback string) string {
	if o.OK() {
		return o.Value
	}
	log.Warn("query failed, using fallback",
		"field", field,
		"query", string(o.Query),
		"error", o.Err,
		"fallback", fallback)
	return fallback
}
