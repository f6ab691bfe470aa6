package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvVar selects the execution environment.
const EnvVar = "REPODESCRIBE_ENV"

// Environment decides where configuration is looked up.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// ResolveEnvironment reads EnvVar. Unset means Production.
func ResolveEnvironment(getenv func(string) string) (Environment, error) {
	switch v := Environment(getenv(EnvVar)); v {
	case "":
		return Production, nil
	case Development, Production:
		return v, nil
	default:
		return "", fmt.Errorf("%s=%q: must be %q or %q", EnvVar, v, Development, Production)
	}
}

// Candidates returns the config files to try, in order, for env.
// Development reads from the working directory; production from the
// user config directory, then /etc.
func (e Environment) Candidates() []string {
	if e == Development {
		return []string{"repodescribe.yml", "repodescribe.yaml", "repodescribe.toml"}
	}

	var dirs []string
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "repodescribe"))
	}
	dirs = append(dirs, "/etc/repodescribe")

	var out []string
	for _, d := range dirs {
		out = append(out,
			filepath.Join(d, "config.yml"),
			filepath.Join(d, "config.yaml"),
			filepath.Join(d, "config.toml"))
	}
	return out
}

// LoadDotEnv loads .env from the working directory in development, so CI
// ref variables can be simulated locally. Variables already set win.
// A missing file is not an error.
func (e Environment) LoadDotEnv(log *slog.Logger) error {
	if e != Development {
		return nil
	}
	const path = ".env"
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("no .env file, continuing with existing environment", "path", path)
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	log.Info("loaded environment", "path", path)
	return nil
}

// Resolve loads the configuration for env. An explicit path must exist;
// otherwise the environment's candidates are tried and defaults used if
// none exist. The result is validated and warnings are logged.
func Resolve(env Environment, explicit string, log *slog.Logger) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if explicit != "" {
		cfg, err = Load(explicit)
	} else {
		cfg, err = LoadFirst(env.Candidates())
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	warnings, err := Validate(cfg)
	for _, w := range warnings {
		log.Warn("config", "path", cfg.Path, "warning", w)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfg.Path, err)
	}

	if cfg.Path == "" {
		log.Debug("no config file found, using defaults", "environment", string(env))
	} else {
		log.Debug("loaded config", "path", cfg.Path, "environment", string(env))
	}
	return cfg, nil
}
