package metrics

import "sync"

var (
	globalCollector *Collector
	once            sync.Once
)

// Global returns the global metrics collector.
func Global() *Collector {
	once.Do(func() {
		globalCollector = NewCollector()
	})
	return globalCollector
}

// IncCounter increments a global counter by 1.
func IncCounter(name string) {
	Global().Counter(name).Inc()
}

// AddCounter adds n to a global counter.
func AddCounter(name string, n int64) {
	Global().Counter(name).Add(n)
}

// StartTimer starts a global timer.
func StartTimer(name string) *TimerContext {
	return Global().Timer(name).Start()
}

// Metric names for relint
const (
	MetricRunsTotal     = "relint_runs_total"
	MetricRunDuration   = "relint_run_duration"
	MetricFileDuration  = "relint_file_scan_duration"
	MetricFilesScanned  = "relint_files_scanned_total"
	MetricFilesSkipped  = "relint_files_skipped_total"
	MetricMatchesFound  = "relint_matches_found_total"
	MetricMatchesKept   = "relint_matches_in_diff_total"
	MetricCacheHits     = "relint_cache_hits_total"
	MetricCacheMisses   = "relint_cache_misses_total"
	MetricReadErrors    = "relint_read_errors_total"
)
