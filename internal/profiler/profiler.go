// Package profiler writes CPU and heap profiles of a relint run.
package profiler

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"
)

// Config names the profile files; an empty name disables that profile.
type Config struct {
	CPUProfile string
	MemProfile string
}

// Enabled reports whether any profile is requested.
func (c Config) Enabled() bool {
	return c.CPUProfile != "" || c.MemProfile != ""
}

// Profiler collects the profiles requested by a Config.
type Profiler struct {
	cpuFile   *os.File
	memFile   string
	startTime time.Time
	stopped   bool
}

// Start starts CPU profiling when requested. The heap profile is written
// by Stop.
func Start(cfg Config) (*Profiler, error) {
	p := &Profiler{memFile: cfg.MemProfile, startTime: time.Now()}

	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			return nil, fmt.Errorf("failed to create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to start CPU profile: %w", err)
		}
		p.cpuFile = f
	}

	return p, nil
}

// Stop ends CPU profiling and writes the heap profile. Calls after the
// first do nothing.
func (p *Profiler) Stop() error {
	if p == nil || p.stopped {
		return nil
	}
	p.stopped = true

	var errs []error
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close CPU profile: %w", err))
		}
	}

	if p.memFile != "" {
		if err := writeHeapProfile(p.memFile); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func writeHeapProfile(path string) error {
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create memory profile: %w", err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("write memory profile: %w", err)
	}
	return nil
}

// Duration returns the time since Start.
func (p *Profiler) Duration() time.Duration {
	return time.Since(p.startTime)
}

// MemStats is a summary of runtime.MemStats.
type MemStats struct {
	Alloc     uint64
	HeapAlloc uint64
	Sys       uint64
	NumGC     uint32
}

// Stats reads the current memory statistics.
func Stats() MemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemStats{Alloc: m.Alloc, HeapAlloc: m.HeapAlloc, Sys: m.Sys, NumGC: m.NumGC}
}

func (m MemStats) String() string {
	return fmt.Sprintf("alloc=%s heap=%s sys=%s gc=%d",
		formatBytes(m.Alloc), formatBytes(m.HeapAlloc), formatBytes(m.Sys), m.NumGC)
}

// formatBytes converts bytes to human-readable format
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
