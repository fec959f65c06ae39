package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/JNZader/relint/internal/lint"
)

// GitHubReporter writes GitHub Actions workflow commands, one annotation per
// match.
type GitHubReporter struct{}

func (r *GitHubReporter) Format() string { return FormatGitHub }

func (r *GitHubReporter) Write(w io.Writer, result *lint.Result) error {
	for i := range result.Matches {
		m := &result.Matches[i]
		_, err := fmt.Fprintf(w, "::%s file=%s,line=%d,endLine=%d,col=%d,colEnd=%d,title=%s::%s\n",
			m.Rule.Severity(),
			escapeProperty(m.Filename),
			m.StartLine, m.EndLine, m.StartColumn, m.EndColumn,
			escapeProperty(m.Rule.Name),
			escapeData(m.Rule.Hint),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

var dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

var propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")

func escapeData(s string) string {
	return dataEscaper.Replace(s)
}

func escapeProperty(s string) string {
	return propertyEscaper.Replace(s)
}
