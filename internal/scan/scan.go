// Package scan applies compiled rules to file contents.
package scan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/JNZader/relint/internal/rules"
)

// Match is one occurrence of a rule pattern in a file.
//
// Lines and columns are 1-based. StartLine is one plus the number of
// newlines strictly before Start; EndLine is one plus the number of
// newlines strictly before End. Columns count characters, not bytes.
type Match struct {
	Filename string
	Rule     *rules.Rule

	// Content is the full text of the scanned file, shared by every match
	// of that file.
	Content string

	// Start and End are byte offsets into Content.
	Start int
	End   int

	StartLine   int
	EndLine     int
	StartColumn int
	EndColumn   int
}

// Text returns the matched substring.
func (m *Match) Text() string {
	return m.Content[m.Start:m.End]
}

// Lines returns the full source lines spanned by the match.
func (m *Match) Lines() string {
	lineStart := lastNewline(m.Content, m.Start) + 1
	lineEnd := len(m.Content)
	for i := m.End; i < len(m.Content); i++ {
		if m.Content[i] == '\n' {
			lineEnd = i
			break
		}
	}
	return m.Content[lineStart:lineEnd]
}

// ReadText reads path as UTF-8 text. ok is false, with a nil error, when
// the path is a directory or its bytes are not text: invalid UTF-8 or any
// NUL byte. Those inputs are expected when callers expand globs and are
// not errors.
func ReadText(path string) (content string, ok bool, err error) {
	f, err := os.Open(path) //nolint:gosec // Paths come from the caller
	if err != nil {
		return "", false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", false, nil
	}

	data, err := io.ReadAll(f)
	if err != nil {
		var pathErr *fs.PathError
		// Some platforms only report a directory on read.
		if errors.As(err, &pathErr) && isDirError(pathErr) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}

	if !isText(data) {
		return "", false, nil
	}
	return string(data), true, nil
}

func isText(data []byte) bool {
	return utf8.Valid(data) && bytes.IndexByte(data, 0) < 0
}

func isDirError(err *fs.PathError) bool {
	info, statErr := os.Stat(err.Path)
	return statErr == nil && info.IsDir()
}

// ScanFile reads path and returns the matches of every applicable rule.
// Directories and non-text files yield no matches and no error.
func ScanFile(path string, rs []*rules.Rule) ([]Match, error) {
	content, ok, err := ReadText(path)
	if err != nil || !ok {
		return nil, err
	}
	return ScanContent(path, content, rs), nil
}

// ScanContent returns the matches of every rule whose file pattern matches
// filename, in rule order and then left to right within each rule.
func ScanContent(filename, content string, rs []*rules.Rule) []Match {
	var idx *LineIndex
	var matches []Match

	for _, rule := range rules.ForFile(rs, filename) {
		locs := rule.Pattern.FindAllIndex(content)
		if len(locs) == 0 {
			continue
		}
		if idx == nil {
			idx = NewLineIndex(content)
		}

		for _, loc := range locs {
			start, end := loc[0], loc[1]
			matches = append(matches, Match{
				Filename:    filename,
				Rule:        rule,
				Content:     content,
				Start:       start,
				End:         end,
				StartLine:   idx.Line(start),
				EndLine:     idx.Line(end),
				StartColumn: idx.Column(start),
				EndColumn:   idx.Column(end),
			})
		}
	}

	return matches
}
