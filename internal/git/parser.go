package git

import (
	"strconv"
	"strings"
)

const (
	fileHeaderPrefix = "diff --git a/"
	hunkHeaderPrefix = "@@ -"
)

// diffParseState holds the state during diff parsing
type diffParseState struct {
	diff        *Diff
	currentFile *FileDiff
}

// ParseDiff parses unified diff text. It never fails: lines it does not
// recognize are skipped, and text without any "diff --git" header yields a
// Diff with no files.
func ParseDiff(diffText string) *Diff {
	diff := &Diff{Files: make([]FileDiff, 0, strings.Count(diffText, fileHeaderPrefix))}
	state := &diffParseState{diff: diff}

	forEachLine(diffText, state.parseLine)
	state.finalize()

	return diff
}

// ParseChangedLines parses diff text into the set of added line numbers of
// each file. A file that appears in several segments gets the union.
func ParseChangedLines(diffText string) ChangedLines {
	changed := make(ChangedLines)
	diff := ParseDiff(diffText)
	for i := range diff.Files {
		f := &diff.Files[i]
		set, ok := changed[f.Path]
		if !ok {
			set = make(LineSet)
			changed[f.Path] = set
		}
		for _, n := range f.AddedLines() {
			set.Add(n)
		}
	}
	return changed
}

// ParseLineNumbers returns the added line numbers of every hunk header in
// text, in order. No file header is required.
//
//	"@@ -54 +54 @@ import glob"    -> [54]
//	"@@ -4,2 +4,2 @@ import glob"  -> [4 5]
func ParseLineNumbers(text string) []int {
	var lines []int
	forEachLine(text, func(line string) {
		if hunk, ok := parseHunkHeader(line); ok {
			lines = append(lines, hunk.AddedLines()...)
		}
	})
	return lines
}

// ParseFilenames returns the b/ path of every "diff --git" header in text,
// in order of first appearance.
func ParseFilenames(diffText string) []string {
	var names []string
	seen := make(map[string]bool)
	forEachLine(diffText, func(line string) {
		if !strings.HasPrefix(line, fileHeaderPrefix) {
			return
		}
		if _, path, ok := parseDiffGitLine(line); ok && !seen[path] {
			seen[path] = true
			names = append(names, path)
		}
	})
	return names
}

// SplitByFile cuts text at every "diff --git" header and returns each
// segment, header included, keyed by its b/ path. Segments of a file that
// appears more than once are joined. Text before the first header is
// dropped.
func SplitByFile(diffText string) map[string]string {
	segments := make(map[string]string)
	var (
		current string
		sb      strings.Builder
	)
	flush := func() {
		if current != "" {
			segments[current] += sb.String()
		}
		sb.Reset()
	}

	forEachLine(diffText, func(line string) {
		if strings.HasPrefix(line, fileHeaderPrefix) {
			flush()
			_, current, _ = parseDiffGitLine(line)
		}
		if current != "" {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	})
	flush()

	return segments
}

// forEachLine calls fn for every line of text without splitting it into a
// slice first. A trailing '\r' is dropped.
func forEachLine(text string, fn func(line string)) {
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '\n' {
			line := strings.TrimSuffix(text[start:i], "\r")
			start = i + 1
			if line != "" {
				fn(line)
			}
		}
	}
}

// parseLine handles parsing a single line of the diff
func (s *diffParseState) parseLine(line string) {
	if strings.HasPrefix(line, fileHeaderPrefix) {
		s.handleNewFile(line)
		return
	}

	// Anything before the first file header is preamble.
	if s.currentFile == nil {
		return
	}

	if strings.HasPrefix(line, hunkHeaderPrefix) {
		if hunk, ok := parseHunkHeader(line); ok {
			s.currentFile.Hunks = append(s.currentFile.Hunks, hunk)
		}
		return
	}

	s.handleFileStatus(line)
}

// handleNewFile closes the current file. A header whose paths cannot be
// read leaves no current file, so its hunks are dropped rather than
// credited to the previous one.
func (s *diffParseState) handleNewFile(line string) {
	s.finalize()
	oldPath, newPath, ok := parseDiffGitLine(line)
	if !ok {
		return
	}
	s.currentFile = &FileDiff{
		Path:    newPath,
		OldPath: oldPath,
		Status:  FileModified,
	}
}

func (s *diffParseState) handleFileStatus(line string) {
	switch {
	case strings.HasPrefix(line, "new file"):
		s.currentFile.Status = FileAdded
	case strings.HasPrefix(line, "deleted file"):
		s.currentFile.Status = FileDeleted
	case strings.HasPrefix(line, "rename from"):
		s.currentFile.Status = FileRenamed
	case strings.HasPrefix(line, "Binary files"):
		s.currentFile.IsBinary = true
	}
}

func (s *diffParseState) finalize() {
	if s.currentFile != nil {
		s.diff.Files = append(s.diff.Files, *s.currentFile)
		s.currentFile = nil
	}
}

// parseDiffGitLine extracts paths from "diff --git a/<old> b/<new>".
// The new path is everything after the last " b/".
func parseDiffGitLine(line string) (oldPath, newPath string, ok bool) {
	rest := strings.TrimPrefix(line, fileHeaderPrefix)
	idx := strings.LastIndex(rest, " b/")
	if idx == -1 {
		return "", "", false
	}
	return rest[:idx], rest[idx+len(" b/"):], true
}

// parseHunkHeader parses "@@ -<old>[,<n>] +<new>[,<n>] @@[ context]".
func parseHunkHeader(line string) (Hunk, bool) {
	hunk := Hunk{Header: line}

	rest, ok := strings.CutPrefix(line, hunkHeaderPrefix)
	if !ok {
		return hunk, false
	}

	ranges, _, ok := strings.Cut(rest, " @@")
	if !ok {
		return hunk, false
	}

	oldRange, newRange, ok := strings.Cut(ranges, " +")
	if !ok {
		return hunk, false
	}

	var hasOld bool
	if hunk.OldStart, hunk.OldLines, hasOld, ok = parseRange(oldRange); !ok {
		return hunk, false
	}
	if !hasOld {
		hunk.OldLines = 1
	}

	if hunk.NewStart, hunk.NewLines, hunk.HasNewLines, ok = parseRange(newRange); !ok {
		return hunk, false
	}

	return hunk, true
}

// parseRange parses "start,count" or "start".
func parseRange(s string) (start, count int, hasCount, ok bool) {
	startStr, countStr, hasCount := strings.Cut(s, ",")

	start, err := strconv.Atoi(startStr)
	if err != nil || start < 0 {
		return 0, 0, false, false
	}
	if !hasCount {
		return start, 0, false, true
	}

	count, err = strconv.Atoi(countStr)
	if err != nil || count < 0 {
		return 0, 0, false, false
	}
	return start, count, true, true
}
