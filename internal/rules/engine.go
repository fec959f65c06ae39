package rules

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Engine selects the regular expression implementation used to compile
// rule patterns.
type Engine string

const (
	// EngineRE2 uses the standard library (RE2 syntax, linear time).
	EngineRE2 Engine = "re2"

	// EngineRegexp2 uses a backtracking engine that supports lookbehind,
	// lookahead and backreferences.
	EngineRegexp2 Engine = "regexp2"
)

// Engines returns the supported engine names.
func Engines() []Engine {
	return []Engine{EngineRE2, EngineRegexp2}
}

// ParseEngine converts a configuration value into an Engine.
// An empty string selects EngineRE2.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case "", EngineRE2:
		return EngineRE2, nil
	case EngineRegexp2:
		return EngineRegexp2, nil
	default:
		return "", fmt.Errorf("unknown regex engine %q (want re2 or regexp2)", s)
	}
}

// Pattern is a compiled regular expression.
type Pattern interface {
	// String returns the source expression.
	String() string

	// FindAllIndex returns the byte offsets [start, end) of every
	// non-overlapping match in s, leftmost first.
	FindAllIndex(s string) [][]int

	// MatchPrefix reports whether the expression matches starting at the
	// first character of s. The match need not consume all of s.
	MatchPrefix(s string) bool
}

// Compile compiles expr. With multiline set, ^ and $ anchor at line
// boundaries. In both modes . does not match a newline.
func (e Engine) Compile(expr string, multiline bool) (Pattern, error) {
	switch e {
	case "", EngineRE2:
		src := expr
		if multiline {
			src = "(?m)" + expr
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, err
		}
		return &re2Pattern{expr: expr, re: re}, nil
	case EngineRegexp2:
		opts := regexp2.None
		if multiline {
			opts |= regexp2.Multiline
		}
		re, err := regexp2.Compile(expr, opts)
		if err != nil {
			return nil, err
		}
		return &regexp2Pattern{expr: expr, re: re}, nil
	default:
		return nil, fmt.Errorf("unknown regex engine %q", string(e))
	}
}

type re2Pattern struct {
	expr string
	re   *regexp.Regexp
}

func (p *re2Pattern) String() string { return p.expr }

func (p *re2Pattern) FindAllIndex(s string) [][]int {
	return p.re.FindAllStringIndex(s, -1)
}

// MatchPrefix relies on leftmost semantics: if any match starts at 0 the
// first match found starts at 0.
func (p *re2Pattern) MatchPrefix(s string) bool {
	loc := p.re.FindStringIndex(s)
	return loc != nil && loc[0] == 0
}

type regexp2Pattern struct {
	expr string
	re   *regexp2.Regexp
}

func (p *regexp2Pattern) String() string { return p.expr }

// FindAllIndex converts regexp2's rune offsets into byte offsets so callers
// can slice the original string.
func (p *regexp2Pattern) FindAllIndex(s string) [][]int {
	m, err := p.re.FindStringMatch(s)
	if err != nil || m == nil {
		return nil
	}

	offsets := runeByteOffsets(s)
	var locs [][]int
	for m != nil {
		start := m.Index
		end := m.Index + m.Length
		locs = append(locs, []int{offsets[start], offsets[end]})

		m, err = p.re.FindNextMatch(m)
		if err != nil {
			break
		}
	}
	return locs
}

func (p *regexp2Pattern) MatchPrefix(s string) bool {
	m, err := p.re.FindStringMatch(s)
	return err == nil && m != nil && m.Index == 0
}

// runeByteOffsets returns the byte offset of every rune index in s,
// including the offset one past the last rune.
func runeByteOffsets(s string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}
