// Package commands contains all CLI commands for relint.
//
// This package uses the Cobra library for CLI management.
// Each command is defined in its own file and registered in init().
package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/JNZader/relint/internal/config"
	"github.com/JNZader/relint/internal/logger"
	"github.com/JNZader/relint/internal/profiler"
	"github.com/JNZader/relint/internal/rules"
)

var (
	// settingsFile is the path of the tool settings file (--settings)
	settingsFile string

	// settings holds the configuration resolved by PersistentPreRunE
	settings *config.Config

	// log is the CLI logger
	log = logger.Default().WithPrefix("relint")

	// prof is the profiler started by --cpuprofile or --memprofile
	prof *profiler.Profiler
)

// rootCmd lints the files given as arguments when called without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "relint [files...]",
	Short: "Write your own linting rules using regular expressions",
	Long: `relint checks files against the regular expressions listed in a rule file
(.relint.yml by default) and reports every match.

Examples:
  # Lint every Python file below the current directory
  relint '**/*.py'

  # Only report matches on lines added by the staged changes
  relint --git-diff $(git diff --staged --name-only)

  # Same, with the diff read from stdin
  git diff --unified=0 | relint --diff src/*.js

  # Use another rule file and fail on warnings
  relint -c rules.yml -W .`,

	// SilenceUsage prevents printing usage on errors
	SilenceUsage: true,

	// SilenceErrors lets Execute report errors and pick the exit code
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},

	RunE: runLint,
}

// flagKeys maps flags to the configuration keys they override.
var flagKeys = map[string]string{
	"config":          "rules.file",
	"fail-warnings":   "rules.fail_warnings",
	"ignore-warnings": "rules.ignore_warnings",
	"engine":          "rules.engine",
	"format":          "output.format",
	"msg-template":    "output.msg_template",
	"summarize":       "output.summarize",
	"code-padding":    "output.code_padding",
	"color":           "output.color",
	"verbose":         "output.verbose",
	"quiet":           "output.quiet",
	"concurrency":     "scan.concurrency",
}

func init() {
	defaults := config.DefaultConfig()
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&settingsFile, "settings", "", "tool settings file (default is .relint-cli.yaml)")

	// Rules
	flags.StringP("config", "c", defaults.Rules.File, "rule file")
	flags.BoolP("fail-warnings", "W", false, "fail on warnings")
	flags.Bool("ignore-warnings", false, "do not load warning rules")
	flags.String("engine", defaults.Rules.Engine, "regular expression engine (re2, regexp2)")

	// Output
	flags.String("format", defaults.Output.Format, "output format (auto, text, panel, github, json, sarif, markdown)")
	flags.String("msg-template", defaults.Output.MsgTemplate, "text/template for the text format")
	flags.Bool("summarize", false, "group panel output by rule")
	flags.Int("code-padding", defaults.Output.CodePadding, "lines of context around a match, -1 to hide the excerpt")
	flags.String("color", defaults.Output.Color, "colorize output (auto, always, never)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "log errors only")

	// Scan
	flags.Int("concurrency", defaults.Scan.Concurrency, "files scanned in parallel (0=auto)")

	// Profiling
	flags.String("cpuprofile", "", "write CPU profile to file")
	flags.String("memprofile", "", "write memory profile to file")

	rootCmd.Flags().BoolP("diff", "d", false, "read a unified diff from stdin and only report matches on added lines")
	rootCmd.Flags().Bool("git-diff", false, "only report matches on lines added by the staged changes")
	rootCmd.MarkFlagsMutuallyExclusive("diff", "git-diff")
}

// Execute runs the root command and returns the process exit code:
// 0 when nothing failed, 1 when an error-severity match was found and
// 2 when the run could not complete.
func Execute() int {
	rootCmd.Version = Version
	err := rootCmd.Execute()
	stopProfiler()
	return exitCode(err)
}

// initializeConfig resolves settings from defaults, the settings file,
// RELINT_* environment variables and flags, in increasing precedence.
func initializeConfig(cmd *cobra.Command) error {
	loader := config.NewLoader()
	if settingsFile != "" {
		loader.SetConfigFile(settingsFile)
	}
	if err := bindFlags(loader.Viper(), cmd.Flags()); err != nil {
		return err
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	settings = cfg

	configureLogger(cfg)
	if used := loader.ConfigFileUsed(); used != "" {
		log.Debug("Using settings file: %s", used)
	}
	return startProfiler(cmd.Flags())
}

func startProfiler(flags *pflag.FlagSet) error {
	cpu, _ := flags.GetString("cpuprofile")
	mem, _ := flags.GetString("memprofile")
	cfg := profiler.Config{CPUProfile: cpu, MemProfile: mem}
	if !cfg.Enabled() {
		return nil
	}

	p, err := profiler.Start(cfg)
	if err != nil {
		return err
	}
	prof = p
	log.Debug("Profiler started: %s", profiler.Stats())
	return nil
}

func stopProfiler() {
	if prof == nil {
		return
	}
	log.Debug("Profiler stopping after %v: %s", prof.Duration().Round(time.Millisecond), profiler.Stats())
	if err := prof.Stop(); err != nil {
		log.Warn("Failed to stop profiler: %v", err)
	}
	prof = nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

func configureLogger(cfg *config.Config) {
	switch {
	case cfg.Output.Quiet:
		logger.SetLevel(logger.LevelError)
	case cfg.Output.Verbose:
		logger.SetLevel(logger.LevelDebug)
	default:
		logger.SetLevel(logger.LevelInfo)
	}
	logger.Default().SetColor(useColor(cfg.Output.Color, os.Stderr))
}

// useColor resolves the "auto", "always" and "never" color settings for f.
func useColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(f)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode reports err and maps it to an exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			log.Error("%v", exitErr.Err)
		}
		return exitErr.Code
	}

	var cfgErr *rules.ConfigError
	if errors.As(err, &cfgErr) {
		log.Error("%v", cfgErr)
		return 2
	}

	log.Error("%v", err)
	return 2
}
