package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/JNZader/relint/internal/lint"
	"github.com/JNZader/relint/internal/scan"
)

// MarkdownReporter generates a Markdown report, for pull request comments.
type MarkdownReporter struct{}

func (r *MarkdownReporter) Format() string { return FormatMarkdown }

func (r *MarkdownReporter) Write(w io.Writer, result *lint.Result) error {
	var sb strings.Builder
	errs, warns := result.Counts()

	sb.WriteString("# relint report\n\n")
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- **Files scanned:** %d\n", result.FilesScanned)
	fmt.Fprintf(&sb, "- **Errors:** %d\n", errs)
	fmt.Fprintf(&sb, "- **Warnings:** %d\n\n", warns)

	if len(result.Matches) == 0 {
		sb.WriteString("No matches found.\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString("## Matches\n\n")

	current := ""
	for i := range result.Matches {
		m := &result.Matches[i]
		if m.Filename != current {
			current = m.Filename
			fmt.Fprintf(&sb, "### %s\n\n", current)
		}
		writeMarkdownMatch(&sb, m)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeMarkdownMatch(sb *strings.Builder, m *scan.Match) {
	fmt.Fprintf(sb, "#### %s %s\n\n", severityIcon(m), m.Rule.Name)

	fmt.Fprintf(sb, "**Location:** Line %d", m.StartLine)
	if m.EndLine > m.StartLine {
		fmt.Fprintf(sb, "-%d", m.EndLine)
	}
	sb.WriteString("\n\n")

	fence := codeFence(m.Lines())
	fmt.Fprintf(sb, "%s\n%s\n%s\n\n", fence, m.Lines(), fence)

	if m.Rule.Hint != "" {
		fmt.Fprintf(sb, "**Hint:** %s\n\n", m.Rule.Hint)
	}

	sb.WriteString("---\n\n")
}

func severityIcon(m *scan.Match) string {
	return "[" + strings.ToUpper(string(m.Rule.Severity())) + "]"
}

// codeFence returns a backtick fence longer than any run inside code.
func codeFence(code string) string {
	longest, run := 0, 0
	for _, c := range code {
		if c == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}
