// Package watch reports batches of changed files below a set of
// directories.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/JNZader/relint/internal/logger"
)

// Handler is called with the files changed during one debounce window,
// sorted and without duplicates.
type Handler func(ctx context.Context, paths []string)

// Options configures a Watcher.
type Options struct {
	// Debounce is how long to wait for more changes before calling the
	// handler.
	Debounce time.Duration

	// Ignore lists base-name glob patterns of files and directories to
	// ignore.
	Ignore []string

	Logger *logger.Logger
}

// DefaultOptions returns the options used by relint watch.
func DefaultOptions() Options {
	return Options{
		Debounce: 200 * time.Millisecond,
		Ignore:   []string{".git", ".hg", ".svn", "node_modules", "__pycache__", "*.swp", "*~", ".#*"},
	}
}

// Watcher watches directory trees and batches file changes.
type Watcher struct {
	fsw     *fsnotify.Watcher
	handler Handler
	opts    Options
	log     *logger.Logger
}

// New creates a watcher over roots and every directory below them.
func New(roots []string, handler Handler, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultOptions().Debounce
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{fsw: fsw, handler: handler, opts: opts, log: opts.Logger.WithPrefix("watch")}
	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Watched returns the directories being watched.
func (w *Watcher) Watched() []string {
	dirs := w.fsw.WatchList()
	sort.Strings(dirs)
	return dirs
}

// Run delivers batches to the handler until ctx is done, then closes the
// watcher. The handler runs on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.track(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.opts.Debounce)
			}

		case <-timerC:
			timer, timerC = nil, nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			sort.Strings(paths)
			w.handler(ctx, paths)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watch error: %v", err)
		}
	}
}

// track reports whether event names a changed file. New directories are
// added to the watch list instead.
func (w *Watcher) track(event fsnotify.Event) bool {
	if w.ignored(event.Name) {
		return false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return false
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addRecursive(event.Name); err != nil {
				w.log.Warn("Cannot watch %s: %v", event.Name, err)
			}
		}
		return false
	}
	return true
}

func (w *Watcher) addRecursive(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignored(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
	if err != nil && !errors.Is(err, fs.SkipAll) {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	return nil
}

func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.opts.Ignore {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
