package report

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/JNZader/relint/internal/lint"
	"github.com/JNZader/relint/internal/rules"
	"github.com/JNZader/relint/internal/scan"
)

// TextReporter renders each match with a text/template.
type TextReporter struct {
	tmpl *template.Template
}

// MatchView is the data passed to the message template.
type MatchView struct {
	Filename  string
	Line      int
	EndLine   int
	Column    int
	EndColumn int
	Rule      RuleView

	// Match is the matched text; Lines is every source line it touches.
	Match string
	Lines string

	// Severity is the declared severity label, "error" or "warning".
	Severity string
}

// RuleView is the rule as seen by templates.
type RuleView struct {
	Name    string
	Hint    string
	Pattern string
	Error   bool
}

// NewMatchView builds the template data for m.
func NewMatchView(m *scan.Match) MatchView {
	return MatchView{
		Filename:  m.Filename,
		Line:      m.StartLine,
		EndLine:   m.EndLine,
		Column:    m.StartColumn,
		EndColumn: m.EndColumn,
		Rule:      newRuleView(m.Rule),
		Match:     m.Text(),
		Lines:     m.Lines(),
		Severity:  string(m.Rule.Severity()),
	}
}

func newRuleView(r *rules.Rule) RuleView {
	return RuleView{Name: r.Name, Hint: r.Hint, Pattern: r.Pattern.String(), Error: r.Error}
}

// NewTextReporter parses tmpl. Literal "\n" sequences typed on a command
// line are turned into newlines.
func NewTextReporter(tmpl string) (*TextReporter, error) {
	tmpl = strings.ReplaceAll(tmpl, `\n`, "\n")
	t, err := template.New("msg").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("invalid message template: %w", err)
	}
	return &TextReporter{tmpl: t}, nil
}

func (r *TextReporter) Format() string { return FormatText }

func (r *TextReporter) Write(w io.Writer, result *lint.Result) error {
	var sb strings.Builder
	for i := range result.Matches {
		sb.Reset()
		if err := r.tmpl.Execute(&sb, NewMatchView(&result.Matches[i])); err != nil {
			return fmt.Errorf("rendering message template: %w", err)
		}
		out := sb.String()
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
	}
	return nil
}
