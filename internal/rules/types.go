package rules

import (
	"fmt"
	"strings"
)

// RawRule is one rule record as it appears in the rule file, before its
// patterns are compiled. Name and Pattern must be present; an empty string
// is a valid value.
type RawRule struct {
	Name        *string `mapstructure:"name" validate:"required"`
	Pattern     *string `mapstructure:"pattern" validate:"required"`
	Hint        string  `mapstructure:"hint"`
	FilePattern *string `mapstructure:"filePattern"`
	Error       *bool   `mapstructure:"error"`
}

// DeclaredError returns the rule's own severity; absent means error.
func (r *RawRule) DeclaredError() bool {
	return r.Error == nil || *r.Error
}

// FilePatternOrDefault returns the configured file pattern or ".*".
func (r *RawRule) FilePatternOrDefault() string {
	if r.FilePattern == nil {
		return DefaultFilePattern
	}
	return *r.FilePattern
}

// DefaultFilePattern matches every path.
const DefaultFilePattern = ".*"

// Options control how raw rules are turned into compiled rules.
type Options struct {
	// FailWarnings makes every rule fail the run. Declared severities used
	// for display are left untouched.
	FailWarnings bool

	// IgnoreWarnings drops warning rules before their patterns are compiled.
	IgnoreWarnings bool

	// Engine selects the regex implementation. Empty means EngineRE2.
	Engine Engine
}

// RuleSet is the result of compiling a rule file.
type RuleSet struct {
	Rules       []*Rule
	Diagnostics []Diagnostic
	Engine      Engine
}

// Len returns the number of compiled rules.
func (rs *RuleSet) Len() int {
	return len(rs.Rules)
}

// Diagnostic is a non-fatal notice produced while loading rules.
type Diagnostic struct {
	// Rule is the zero-based index of the rule record, or -1 when the
	// notice concerns the whole file.
	Rule    int
	Message string
}

func (d Diagnostic) String() string {
	if d.Rule < 0 {
		return d.Message
	}
	return fmt.Sprintf("rule #%d: %s", d.Rule+1, d.Message)
}

// Canonical ConfigError reasons.
const (
	ReasonParse   = "Error parsing your relint config file."
	ReasonShape   = "Your relint config is not a valid YAML list of relint tests."
	ReasonRead    = "Could not read your relint config file."
	ReasonInvalid = "Your relint config contains an invalid test."
)

// MessageEmptyConfig is the diagnostic emitted for a rule file with no rules.
const MessageEmptyConfig = "Your relint config is empty, no tests were executed."

// ConfigError reports a rule file that cannot be turned into rules.
// It is the only error the rule compiler returns.
type ConfigError struct {
	Reason string

	// Rule is the zero-based index of the offending record, or -1.
	Rule int

	// Field names the offending key, if any.
	Field string

	Err error
}

func (e *ConfigError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Reason)
	if e.Rule >= 0 {
		fmt.Fprintf(&sb, " (rule #%d", e.Rule+1)
		if e.Field != "" {
			fmt.Fprintf(&sb, ", field %q", e.Field)
		}
		sb.WriteString(")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
