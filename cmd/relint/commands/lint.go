package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/JNZader/relint/internal/config"
	"github.com/JNZader/relint/internal/git"
	"github.com/JNZader/relint/internal/lint"
	"github.com/JNZader/relint/internal/report"
	"github.com/JNZader/relint/internal/rules"
)

func runLint(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rs, err := loadRules(settings)
	if err != nil {
		return err
	}

	changed, err := readChangedLines(ctx, cmd)
	if err != nil {
		return err
	}

	paths, err := expandPaths(args)
	if err != nil {
		return err
	}
	if len(args) == 0 && changed != nil {
		paths = changed.FilesWithAdditions()
	}

	engine := lint.NewEngine(rs, lint.Config{Concurrency: settings.Scan.Concurrency})

	var result *lint.Result
	if changed != nil {
		result, err = engine.RunDiff(ctx, paths, changed)
	} else {
		result, err = engine.Run(ctx, paths)
	}
	if err != nil {
		return err
	}

	reporter, err := newReporter(settings, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := reporter.Write(cmd.OutOrStdout(), result); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	errs, warns := result.Counts()
	log.Debug("%d files scanned, %d skipped, %d errors, %d warnings",
		result.FilesScanned, result.FilesSkipped, errs, warns)

	if result.Outcome == lint.OutcomeError {
		return &ExitError{Code: 1}
	}
	return nil
}

// loadRules compiles the rule file named by cfg and logs its diagnostics.
func loadRules(cfg *config.Config) (*rules.RuleSet, error) {
	rs, err := rules.Load(cfg.Rules.File, rules.Options{
		FailWarnings:   cfg.Rules.FailWarnings,
		IgnoreWarnings: cfg.Rules.IgnoreWarnings,
		Engine:         rules.Engine(cfg.Rules.Engine),
	})
	if err != nil {
		return nil, err
	}
	for _, d := range rs.Diagnostics {
		log.Warn("%s", d)
	}
	log.Debug("Loaded %d rules from %s", rs.Len(), cfg.Rules.File)
	return rs, nil
}

// readChangedLines returns the lines added by the diff selected with
// --diff or --git-diff, or nil when neither is set.
func readChangedLines(ctx context.Context, cmd *cobra.Command) (git.ChangedLines, error) {
	fromStdin, _ := cmd.Flags().GetBool("diff")
	fromGit, _ := cmd.Flags().GetBool("git-diff")

	switch {
	case fromStdin:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading diff from stdin: %w", err)
		}
		return git.ParseChangedLines(string(data)), nil

	case fromGit:
		repo, err := git.NewRepo(".")
		if err != nil {
			return nil, err
		}
		changed, err := repo.StagedChanges(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading staged changes: %w", err)
		}
		return changed, nil
	}
	return nil, nil
}

// newReporter builds the reporter for cfg, resolving "auto" against w.
func newReporter(cfg *config.Config, w io.Writer) (report.Reporter, error) {
	out, _ := w.(*os.File)
	terminal := out != nil && isTerminal(out)

	color := cfg.Output.Color == "always"
	if cfg.Output.Color == "auto" && out != nil {
		color = useColor("auto", out)
	}

	format := report.ResolveFormat(cfg.Output.Format, os.Getenv, terminal)
	log.Debug("Output format: %s", format)

	return report.NewReporter(format, report.Options{
		MsgTemplate: cfg.Output.MsgTemplate,
		Summarize:   cfg.Output.Summarize,
		CodePadding: cfg.Output.CodePadding,
		Color:       color,
		Version:     Version,
	})
}
