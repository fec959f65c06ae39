// Package git parses unified diffs and reads them from a git repository.
package git

import (
	"context"
	"sort"
)

// Repository is the subset of git operations relint needs.
type Repository interface {
	// StagedDiff returns the zero-context diff of staged changes.
	StagedDiff(ctx context.Context) (string, error)

	// Root returns the top-level directory of the repository.
	Root(ctx context.Context) (string, error)
}

// Diff is a parsed unified diff.
type Diff struct {
	Files []FileDiff `json:"files"`
}

// FileDiff is the part of a diff that concerns one file.
type FileDiff struct {
	// Path is the b/ path of the "diff --git" header, verbatim.
	Path     string     `json:"path"`
	OldPath  string     `json:"old_path,omitempty"`
	Status   FileStatus `json:"status"`
	IsBinary bool       `json:"is_binary"`
	Hunks    []Hunk     `json:"hunks"`
}

// FileStatus represents the status of a file in the diff.
type FileStatus string

const (
	FileAdded    FileStatus = "added"
	FileModified FileStatus = "modified"
	FileDeleted  FileStatus = "deleted"
	FileRenamed  FileStatus = "renamed"
)

// Hunk is one "@@ -a,b +c,d @@" block.
type Hunk struct {
	Header   string `json:"header"`
	OldStart int    `json:"old_start"`
	OldLines int    `json:"old_lines"`
	NewStart int    `json:"new_start"`

	// NewLines is the count after the comma in the "+" range. It is only
	// meaningful when HasNewLines is set.
	NewLines    int  `json:"new_lines"`
	HasNewLines bool `json:"has_new_lines"`
}

// AddedLines returns the target-file line numbers added by the hunk.
// "+c" adds line c; "+c,d" adds the d lines c..c+d-1, so "+c,0" adds none.
func (h Hunk) AddedLines() []int {
	if !h.HasNewLines {
		return []int{h.NewStart}
	}
	lines := make([]int, 0, max(h.NewLines, 0))
	for i := 0; i < h.NewLines; i++ {
		lines = append(lines, h.NewStart+i)
	}
	return lines
}

// AddedLines returns the union of the added lines of every hunk, in hunk
// order, without duplicates.
func (f *FileDiff) AddedLines() []int {
	seen := make(LineSet)
	var lines []int
	for _, h := range f.Hunks {
		for _, n := range h.AddedLines() {
			if !seen.Contains(n) {
				seen.Add(n)
				lines = append(lines, n)
			}
		}
	}
	return lines
}

// LineSet is a set of 1-based line numbers.
type LineSet map[int]struct{}

// NewLineSet returns a set holding lines.
func NewLineSet(lines ...int) LineSet {
	s := make(LineSet, len(lines))
	for _, n := range lines {
		s.Add(n)
	}
	return s
}

// Add inserts n.
func (s LineSet) Add(n int) {
	s[n] = struct{}{}
}

// Contains reports whether n is in the set.
func (s LineSet) Contains(n int) bool {
	_, ok := s[n]
	return ok
}

// Sorted returns the members in ascending order.
func (s LineSet) Sorted() []int {
	lines := make([]int, 0, len(s))
	for n := range s {
		lines = append(lines, n)
	}
	sort.Ints(lines)
	return lines
}

// ChangedLines maps a file path, as written in the diff, to the lines added
// to that file.
type ChangedLines map[string]LineSet

// Contains reports whether line of path was added by the diff.
func (c ChangedLines) Contains(path string, line int) bool {
	set, ok := c[path]
	return ok && set.Contains(line)
}

// Files returns the paths in the mapping in ascending order.
func (c ChangedLines) Files() []string {
	files := make([]string, 0, len(c))
	for f := range c {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// FilesWithAdditions returns, in ascending order, the paths that gained at
// least one line. Deleted files and pure removals are left out.
func (c ChangedLines) FilesWithAdditions() []string {
	files := make([]string, 0, len(c))
	for f, set := range c {
		if len(set) > 0 {
			files = append(files, f)
		}
	}
	sort.Strings(files)
	return files
}
