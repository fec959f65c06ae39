package lint

import (
	"context"
	"fmt"
	"time"

	"github.com/JNZader/relint/internal/cache"
	"github.com/JNZader/relint/internal/git"
	"github.com/JNZader/relint/internal/logger"
	"github.com/JNZader/relint/internal/metrics"
	"github.com/JNZader/relint/internal/rules"
	"github.com/JNZader/relint/internal/scan"
	"github.com/JNZader/relint/internal/worker"
)

// Config tunes an Engine. The zero value scans with GOMAXPROCS workers and
// no cache.
type Config struct {
	Concurrency int
	Cache       cache.Cache
	Metrics     *metrics.Collector
	Logger      *logger.Logger
}

// Engine scans files with one compiled rule set.
type Engine struct {
	rules       *rules.RuleSet
	fingerprint string
	workers     int
	cache       cache.Cache
	metrics     *metrics.Collector
	log         *logger.Logger
}

// NewEngine creates an engine for rs.
func NewEngine(rs *rules.RuleSet, cfg Config) *Engine {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Global()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	e := &Engine{
		rules:   rs,
		workers: cfg.Concurrency,
		cache:   cfg.Cache,
		metrics: cfg.Metrics,
		log:     cfg.Logger.WithPrefix("lint"),
	}
	if e.cache != nil {
		e.fingerprint = rs.Fingerprint()
	}
	return e
}

// Rules returns the rule set the engine scans with.
func (e *Engine) Rules() *rules.RuleSet {
	return e.rules
}

// scanTask implements worker.Task for one path. Each task owns one slot of
// the shared results slice.
type scanTask struct {
	path   string
	engine *Engine
	slot   *FileResult
}

func (t *scanTask) ID() string {
	return "scan:" + t.path
}

func (t *scanTask) Execute(_ context.Context) error {
	*t.slot = t.engine.ScanPath(t.path)
	return t.slot.Err
}

// Run scans paths concurrently and returns the matches in path order.
// Unreadable paths are logged and counted as skipped; only cancellation of
// ctx makes Run fail.
func (e *Engine) Run(ctx context.Context, paths []string) (*Result, error) {
	start := time.Now()
	e.metrics.Counter(metrics.MetricRunsTotal).Inc()

	files := make([]FileResult, len(paths))
	tasks := make([]worker.Task, len(paths))
	for i, p := range paths {
		tasks[i] = &scanTask{path: p, engine: e, slot: &files[i]}
	}

	e.log.Debug("Scanning %d files with %d rules", len(paths), e.rules.Len())

	_, stats, err := worker.Run(ctx, worker.Config{Workers: e.workers}, tasks)
	if err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}

	result := newResult(files)
	result.Duration = time.Since(start)
	e.metrics.Timer(metrics.MetricRunDuration).Observe(result.Duration)
	e.metrics.Counter(metrics.MetricMatchesFound).Add(int64(len(result.Matches)))

	e.log.Debug("Scan completed: %d scanned, %d skipped, %d matches in %v (%s)",
		result.FilesScanned, result.FilesSkipped, len(result.Matches), result.Duration, stats)

	return result, nil
}

// RunDiff is Run followed by FilterByDiff.
func (e *Engine) RunDiff(ctx context.Context, paths []string, changed git.ChangedLines) (*Result, error) {
	result, err := e.Run(ctx, paths)
	if err != nil {
		return nil, err
	}
	result.Restrict(changed)
	e.metrics.Counter(metrics.MetricMatchesKept).Add(int64(len(result.Matches)))
	return result, nil
}

// ScanPath scans a single path, consulting the cache when one is set.
func (e *Engine) ScanPath(path string) FileResult {
	timer := e.metrics.Timer(metrics.MetricFileDuration).Start()
	defer timer.Stop()

	fr := FileResult{Path: path}

	content, ok, err := scan.ReadText(path)
	if err != nil {
		e.log.WithField("path", path).Warn("Skipping unreadable file: %v", err)
		e.metrics.Counter(metrics.MetricReadErrors).Inc()
		e.metrics.Counter(metrics.MetricFilesSkipped).Inc()
		fr.Skipped = true
		fr.Err = err
		return fr
	}
	if !ok {
		e.log.WithField("path", path).Debug("Skipping directory or non-text file")
		e.metrics.Counter(metrics.MetricFilesSkipped).Inc()
		fr.Skipped = true
		return fr
	}
	e.metrics.Counter(metrics.MetricFilesScanned).Inc()

	if e.cache == nil {
		fr.Matches = scan.ScanContent(path, content, e.rules.Rules)
		return fr
	}

	key := cache.ComputeKey(path, []byte(content), e.fingerprint)
	if cached, hit := e.cache.Get(key); hit {
		e.metrics.Counter(metrics.MetricCacheHits).Inc()
		fr.Matches = cached
		fr.Cached = true
		return fr
	}
	e.metrics.Counter(metrics.MetricCacheMisses).Inc()

	fr.Matches = scan.ScanContent(path, content, e.rules.Rules)
	e.cache.Set(key, fr.Matches)
	return fr
}
