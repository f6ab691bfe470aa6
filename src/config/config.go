package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/sofmeright/repodescribe/src/gitver"
)

// Backends accepted by the backend setting.
const (
	BackendGit   = "git"
	BackendGoGit = "go-git"
)

// Config is the top-level repodescribe configuration.
type Config struct {
	Fallbacks FallbackConfig `yaml:"fallbacks" toml:"fallbacks"`
	CI        CIConfig       `yaml:"ci" toml:"ci"`
	Backend   string         `yaml:"backend" toml:"backend"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-" toml:"-"`
}

// FallbackConfig holds the values substituted for fields that could not
// be resolved.
type FallbackConfig struct {
	DirtyString string `yaml:"dirty_string" toml:"dirty_string"`
	Branch      string `yaml:"branch" toml:"branch"`
	Commit      string `yaml:"commit" toml:"commit"`
	CommitCount string `yaml:"commit_count" toml:"commit_count"`
	Remote      string `yaml:"remote" toml:"remote"`
	Semver      string `yaml:"semver" toml:"semver"`
	Stage       string `yaml:"stage" toml:"stage"`
	Status      string `yaml:"status" toml:"status"`
	Tag         string `yaml:"tag" toml:"tag"`
	Version     string `yaml:"version" toml:"version"`
}

// CIConfig controls how CI ref names override a detached HEAD.
type CIConfig struct {
	RefVars []string `yaml:"ref_vars" toml:"ref_vars"`
}

// Gitver converts the fallbacks to the form the resolver consumes.
func (f FallbackConfig) Gitver() gitver.Fallbacks {
	return gitver.Fallbacks{
		DirtyString: f.DirtyString,
		Branch:      f.Branch,
		Commit:      f.Commit,
		CommitCount: f.CommitCount,
		Remote:      f.Remote,
		Semver:      f.Semver,
		Stage:       f.Stage,
		Status:      f.Status,
		Tag:         f.Tag,
		Version:     f.Version,
	}
}

// Load reads configuration from a YAML or TOML file, chosen by extension.
// Keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yml", ".yaml", "":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// LoadFirst loads the first existing file among candidates. Returns
// defaults if none exist.
func LoadFirst(candidates []string) (*Config, error) {
	for _, path := range candidates {
		cfg, err := Load(path)
		if err == nil {
			return cfg, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return nil, err
	}
	return Defaults(), nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	fb := gitver.DefaultFallbacks()
	return &Config{
		Fallbacks: FallbackConfig{
			DirtyString: fb.DirtyString,
			Branch:      fb.Branch,
			Commit:      fb.Commit,
			CommitCount: fb.CommitCount,
			Remote:      fb.Remote,
			Semver:      fb.Semver,
			Stage:       fb.Stage,
			Status:      fb.Status,
			Tag:         fb.Tag,
			Version:     fb.Version,
		},
		CI: CIConfig{
			RefVars: append([]string(nil), gitver.DefaultCIRefVars...),
		},
		Backend: BackendGit,
	}
}
