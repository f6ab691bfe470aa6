package gitver

import "fmt"

// Descriptor is the resolved identity of a working copy. Field order
// matches the emitted JSON.
type Descriptor struct {
	Location string `json:"location"`
	Branch   string `json:"branch"`
	Commit   string `json:"commit"`
	IsDirty  string `json:"is_dirty"`
	Remote   string `json:"remote"`
	Semver   string `json:"semver"`
	Stage    string `json:"stage"`
	Version  string `json:"version"`
}

// draft collects fields while a run resolves them. A nil field has not
// been resolved yet.
type draft struct {
	location *string
	branch   *string
	commit   *string
	dirty    *string
	remote   *string
	semver   *string
	stage    *string
	version  *string
}

// seal converts a fully resolved draft into a Descriptor. Every resolver
// step assigns its field, so an unset field is a bug in this package.
func (d draft) seal() Descriptor {
	fields := []struct {
		name string
		v    *string
	}{
		{"location", d.location},
		{"branch", d.branch},
		{"commit", d.commit},
		{"is_dirty", d.dirty},
		{"remote", d.remote},
		{"semver", d.semver},
		{"stage", d.stage},
		{"version", d.version},
	}
	for _, f := range fields {
		if f.v == nil {
			panic(fmt.Sprintf("gitver: descriptor field %s left unresolved", f.name))
		}
	}
	return Descriptor{
		Location: *d.location,
		Branch:   *d.branch,
		Commit:   *d.commit,
		IsDirty:  *d.dirty,
		Remote:   *d.remote,
		Semver:   *d.semver,
		Stage:    *d.stage,
		Version:  *d.version,
	}
}
