package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestLoadYAMLKeepsDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "repodescribe.yml", `
fallbacks:
  tag: UNTAGGED
  dirty_string: "+dirty"
ci:
  ref_vars: [BUILD_REF]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "UNTAGGED", cfg.Fallbacks.Tag)
	assert.Equal(t, "+dirty", cfg.Fallbacks.DirtyString)
	assert.Equal(t, "NOSEMVER", cfg.Fallbacks.Semver)
	assert.Equal(t, []string{"BUILD_REF"}, cfg.CI.RefVars)
	assert.Equal(t, BackendGit, cfg.Backend)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
backend = "go-git"

[fallbacks]
version = "UNKNOWN"
status = "UNKNOWN"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendGoGit, cfg.Backend)
	assert.Equal(t, "UNKNOWN", cfg.Fallbacks.Version)
	assert.Equal(t, "UNKNOWN", cfg.Fallbacks.Status)
	assert.Equal(t, "NOBRANCH", cfg.Fallbacks.Branch)

	fb := cfg.Fallbacks.Gitver()
	assert.Equal(t, "UNKNOWN", fb.Version)
	assert.Equal(t, "-DIRTY", fb.DirtyString)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, dir, "bad.yml", "fallbacks: [nope"))
	assert.ErrorContains(t, err, "parsing")

	_, err = Load(writeFile(t, dir, "config.json", "{}"))
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestLoadFirst(t *testing.T) {
	dir := t.TempDir()
	second := writeFile(t, dir, "b.yml", "backend: go-git\n")

	cfg, err := LoadFirst([]string{filepath.Join(dir, "a.yml"), second})
	require.NoError(t, err)
	assert.Equal(t, second, cfg.Path)

	cfg, err = LoadFirst([]string{filepath.Join(dir, "a.yml")})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestValidate(t *testing.T) {
	warnings, err := Validate(Defaults())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	cfg := Defaults()
	cfg.Fallbacks.Version = ""
	cfg.Fallbacks.Semver = "0.0.0"
	cfg.Fallbacks.Status = "false"
	cfg.Fallbacks.Stage = "release"
	cfg.Backend = "svn"
	_, err = Validate(cfg)
	require.Error(t, err)
	for _, want := range []string{"fallbacks.version", "fallbacks.semver", "fallbacks.status", "fallbacks.stage", "backend"} {
		assert.ErrorContains(t, err, want)
	}

	cfg = Defaults()
	cfg.Fallbacks.Tag = "0.0.0"
	cfg.CI.RefVars = nil
	warnings, err = Validate(cfg)
	require.NoError(t, err)
	assert.Len(t, warnings, 2)
}

func TestResolveEnvironment(t *testing.T) {
	env := func(v string) func(string) string {
		return func(string) string { return v }
	}

	e, err := ResolveEnvironment(env(""))
	require.NoError(t, err)
	assert.Equal(t, Production, e)

	e, err = ResolveEnvironment(env("development"))
	require.NoError(t, err)
	assert.Equal(t, Development, e)

	_, err = ResolveEnvironment(env("staging"))
	assert.ErrorContains(t, err, EnvVar)
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []string{"repodescribe.yml", "repodescribe.yaml", "repodescribe.toml"}, Development.Candidates())

	prod := Production.Candidates()
	require.NotEmpty(t, prod)
	assert.Equal(t, "/etc/repodescribe/config.toml", prod[len(prod)-1])
}

func TestResolveDevelopment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "repodescribe.toml", "[fallbacks]\ntag = \"DEV\"\n")

	cfg, err := Resolve(Development, "", discard())
	require.NoError(t, err)
	assert.Equal(t, "DEV", cfg.Fallbacks.Tag)
	assert.Equal(t, "repodescribe.toml", cfg.Path)
}

func TestResolveExplicitMissing(t *testing.T) {
	_, err := Resolve(Production, filepath.Join(t.TempDir(), "nope.yml"), discard())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveInvalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yml", "fallbacks:\n  branch: \"\"\n")
	_, err := Resolve(Production, path, discard())
	assert.ErrorContains(t, err, "fallbacks.branch")
}

func TestLoadDotEnv(t *testing.T) {
	const key = "REPODESCRIBE_TEST_REF"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, Development.LoadDotEnv(discard()))
	assert.Empty(t, os.Getenv(key), "missing .env is not an error")

	writeFile(t, dir, ".env", key+"=feature/from-dotenv\n")
	require.NoError(t, Production.LoadDotEnv(discard()))
	assert.Empty(t, os.Getenv(key), "production ignores .env")

	require.NoError(t, Development.LoadDotEnv(discard()))
	assert.Equal(t, "feature/from-dotenv", os.Getenv(key))
}
