package scan

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// LineIndex maps byte offsets in a text to line and column numbers.
type LineIndex struct {
	content  string
	newlines []int
}

// NewLineIndex records the position of every '\n' in content.
func NewLineIndex(content string) *LineIndex {
	newlines := make([]int, 0, strings.Count(content, "\n"))
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			newlines = append(newlines, i)
		}
	}
	return &LineIndex{content: content, newlines: newlines}
}

// Line returns 1 + the number of newlines strictly before offset.
func (x *LineIndex) Line(offset int) int {
	return sort.SearchInts(x.newlines, offset) + 1
}

// Column returns the 1-based character column of offset: the number of
// characters between the preceding newline (or the start of the text) and
// offset, plus one.
func (x *LineIndex) Column(offset int) int {
	k := sort.SearchInts(x.newlines, offset)
	lineStart := 0
	if k > 0 {
		lineStart = x.newlines[k-1] + 1
	}
	return utf8.RuneCountInString(x.content[lineStart:offset]) + 1
}

// LineOf is Line without an index, for one-off lookups.
func LineOf(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}

// ColumnOf is Column without an index, for one-off lookups.
func ColumnOf(content string, offset int) int {
	return utf8.RuneCountInString(content[lastNewline(content, offset)+1:offset]) + 1
}

// lastNewline returns the index of the last '\n' before offset, or -1.
func lastNewline(content string, offset int) int {
	return strings.LastIndexByte(content[:offset], '\n')
}
