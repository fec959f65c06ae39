package report

import (
	"encoding/json"
	"io"

	"github.com/JNZader/relint/internal/lint"
	"github.com/JNZader/relint/internal/scan"
)

// JSONReporter generates JSON reports.
type JSONReporter struct {
	Indent bool
}

type jsonReport struct {
	Outcome      lint.Outcome `json:"outcome"`
	FilesScanned int          `json:"files_scanned"`
	FilesSkipped int          `json:"files_skipped"`
	Errors       int          `json:"errors"`
	Warnings     int          `json:"warnings"`
	Matches      []jsonMatch  `json:"matches"`
}

type jsonMatch struct {
	Filename    string `json:"filename"`
	Rule        string `json:"rule"`
	Hint        string `json:"hint,omitempty"`
	Severity    string `json:"severity"`
	Fails       bool   `json:"fails"`
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
	StartColumn int    `json:"start_column"`
	EndColumn   int    `json:"end_column"`
	Text        string `json:"text"`
}

func (r *JSONReporter) Format() string { return FormatJSON }

func (r *JSONReporter) Write(w io.Writer, result *lint.Result) error {
	encoder := json.NewEncoder(w)
	if r.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(buildJSONReport(result))
}

func buildJSONReport(result *lint.Result) *jsonReport {
	errs, warns := result.Counts()
	report := &jsonReport{
		Outcome:      result.Outcome,
		FilesScanned: result.FilesScanned,
		FilesSkipped: result.FilesSkipped,
		Errors:       errs,
		Warnings:     warns,
		Matches:      make([]jsonMatch, 0, len(result.Matches)),
	}
	for i := range result.Matches {
		report.Matches = append(report.Matches, newJSONMatch(&result.Matches[i]))
	}
	return report
}

func newJSONMatch(m *scan.Match) jsonMatch {
	return jsonMatch{
		Filename:    m.Filename,
		Rule:        m.Rule.Name,
		Hint:        m.Rule.Hint,
		Severity:    string(m.Rule.Severity()),
		Fails:       m.Rule.Fail,
		StartLine:   m.StartLine,
		EndLine:     m.EndLine,
		StartColumn: m.StartColumn,
		EndColumn:   m.EndColumn,
		Text:        m.Text(),
	}
}
