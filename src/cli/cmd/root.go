package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/repodescribe/src/config"
	"github.com/sofmeright/repodescribe/src/gitver"
	"github.com/sofmeright/repodescribe/src/output"
)

var (
	cfgFile string
	backend string
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "repodescribe <repo-path>",
	Short: "Describe a git working copy",
	Long: `repodescribe prints a JSON descriptor of a git working copy: branch,
commit, dirty state, remote, release stage, semver and full version.

Fields that cannot be resolved are replaced with configured fallbacks;
they never change the exit code.`,
	Args:          exactlyOneRepo,
	RunE:          runDescribe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (.yml, .yaml or .toml)")
	rootCmd.Flags().StringVar(&backend, "backend", "", "query backend: git or go-git (default from config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the summary on stderr")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func exactlyOneRepo(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one argument, got %d\nusage: %s", len(args), cmd.UseLine())
	}
	return nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	log := newLogger(verbose)

	repo, err := resolveRepoPath(args[0])
	if err != nil {
		return err
	}

	env, err := config.ResolveEnvironment(os.Getenv)
	if err != nil {
		return fmt.Errorf("resolving environment: %w", err)
	}
	if err := env.LoadDotEnv(log); err != nil {
		return err
	}
	cfg, err := config.Resolve(env, cfgFile, log)
	if err != nil {
		return err
	}
	if backend != "" {
		cfg.Backend = backend
	}

	q, err := newQuerier(cfg.Backend)
	if err != nil {
		return err
	}

	fb := cfg.Fallbacks.Gitver()
	start := time.Now()
	d := gitver.Describe(cmd.Context(), q, repo, gitver.Options{
		Fallbacks: fb,
		CIRefVars: cfg.CI.RefVars,
		Logger:    log,
	})

	if !quiet {
		output.Summary(cmd.ErrOrStderr(), d, fb, time.Since(start), output.UseColor())
	}
	return output.WriteDescriptor(cmd.OutOrStdout(), d)
}

// resolveRepoPath returns the absolute form of path, which must be an
// existing directory.
func resolveRepoPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("repository path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("repository path %s: %w", abs, errNotDir)
	}
	return abs, nil
}

var errNotDir = errors.New("not a directory")

func newQuerier(name string) (gitver.Querier, error) {
	switch name {
	case config.BackendGit:
		return gitver.GitCLI{}, nil
	case config.BackendGoGit:
		return gitver.GoGit{}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (supported: %s, %s)", name, config.BackendGit, config.BackendGoGit)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
