package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JNZader/relint/internal/cache"
	"github.com/JNZader/relint/internal/lint"
	"github.com/JNZader/relint/internal/metrics"
	"github.com/JNZader/relint/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [files...]",
	Short: "Lint files again whenever they change",
	Long: `Lint the given files, then watch their directories and lint again after
every change. Unchanged files are served from an in-memory cache.

Examples:
  relint watch '**/*.py'
  relint watch --format text src`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if len(args) == 0 {
		args = []string{"."}
	}

	rs, err := loadRules(settings)
	if err != nil {
		return err
	}

	lc := lint.Config{Concurrency: settings.Scan.Concurrency}
	var lru *cache.LRUCache
	if settings.Cache.Enabled {
		lru = cache.NewLRUCache(settings.Cache.MaxEntries, settings.Cache.TTL)
		lc.Cache = lru
	}
	engine := lint.NewEngine(rs, lc)

	out := cmd.OutOrStdout()
	reporter, err := newReporter(settings, out)
	if err != nil {
		return err
	}

	lintAll := func(ctx context.Context) {
		paths, err := expandPaths(args)
		if err != nil {
			log.Error("%v", err)
			return
		}
		result, err := engine.Run(ctx, paths)
		if err != nil {
			log.Debug("%v", err)
			return
		}
		if err := reporter.Write(out, result); err != nil {
			log.Error("writing report: %v", err)
			return
		}

		errs, warns := result.Counts()
		entry := log.WithFields(map[string]any{
			"files":    result.FilesScanned,
			"errors":   errs,
			"warnings": warns,
		})
		if lru != nil {
			stats := lru.Stats()
			entry = entry.WithField("cache_hits", stats.Hits)
		}
		entry.Info("Lint finished in %v", result.Duration)
	}

	w, err := watch.New(watchRoots(args), func(ctx context.Context, changed []string) {
		log.Debug("Changed: %s", strings.Join(changed, ", "))
		lintAll(ctx)
	}, watch.DefaultOptions())
	if err != nil {
		return err
	}

	lintAll(ctx)
	log.Info("Watching %d directories, press Ctrl+C to stop", len(w.Watched()))

	err = w.Run(ctx)
	if data, exportErr := metrics.Global().Export(); exportErr == nil {
		log.Debug("Metrics: %s", data)
	}
	return err
}

// watchRoots returns the directories to watch for args: a directory
// itself, the directory of a file and the fixed prefix of a glob.
func watchRoots(args []string) []string {
	var roots []string
	seen := make(map[string]bool)
	for _, arg := range args {
		var root string
		switch info, err := os.Stat(arg); {
		case hasMeta(arg):
			root = globRoot(filepath.ToSlash(filepath.Clean(arg)))
		case err == nil && info.IsDir():
			root = arg
		default:
			root = filepath.Dir(arg)
		}
		root = filepath.Clean(filepath.FromSlash(root))
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	return roots
}
