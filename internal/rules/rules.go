// Package rules loads and compiles relint rule definitions.
//
// A rule file is a YAML list of mappings:
//
//   - name: No fixme
//     pattern: FIXME
//     hint: Fix it right away!
//     filePattern: .*\.py
//     error: false
//
// name and pattern are required. filePattern defaults to ".*" and error
// defaults to true.
package rules

// Severity is the declared importance of a rule.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Title returns the capitalized label used in reports.
func (s Severity) Title() string {
	if s == SeverityError {
		return "Error"
	}
	return "Warning"
}

// Rule is a compiled, ready-to-apply rule.
// Rules are immutable after Compile and safe for concurrent use.
type Rule struct {
	Name        string
	Pattern     Pattern
	Hint        string
	FilePattern Pattern

	// Error is the severity declared in the rule file.
	Error bool

	// Fail reports whether a match fails the run. It is Error OR-ed with
	// the fail-on-warnings option at load time.
	Fail bool
}

// Severity returns the declared severity, used for display.
func (r *Rule) Severity() Severity {
	if r.Error {
		return SeverityError
	}
	return SeverityWarning
}

// EffectiveSeverity returns the severity used for the exit status.
func (r *Rule) EffectiveSeverity() Severity {
	if r.Fail {
		return SeverityError
	}
	return SeverityWarning
}

// AppliesTo reports whether the rule's file pattern matches path from its
// first character. The path is used exactly as given.
func (r *Rule) AppliesTo(path string) bool {
	return r.FilePattern.MatchPrefix(path)
}
