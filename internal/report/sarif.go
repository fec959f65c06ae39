package report

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/JNZader/relint/internal/lint"
	"github.com/JNZader/relint/internal/rules"
)

// SARIFReporter generates SARIF 2.1.0 reports.
type SARIFReporter struct {
	Version string
}

func (r *SARIFReporter) Format() string { return FormatSARIF }

// SARIF types
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
	Help             *sarifHelp   `json:"help,omitempty"`
	DefaultConfig    sarifConfig  `json:"defaultConfiguration"`
}

type sarifHelp struct {
	Text     string `json:"text"`
	Markdown string `json:"markdown"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	EndLine     int `json:"endLine"`
	StartColumn int `json:"startColumn"`
	EndColumn   int `json:"endColumn"`
}

func (r *SARIFReporter) Write(w io.Writer, result *lint.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r.buildReport(result))
}

func (r *SARIFReporter) buildReport(result *lint.Result) *sarifReport {
	run := sarifRun{
		Tool: sarifTool{
			Driver: sarifDriver{Name: "relint", Version: r.Version},
		},
		Results: []sarifResult{},
	}

	index := make(map[*rules.Rule]int)
	for i := range result.Matches {
		m := &result.Matches[i]

		idx, ok := index[m.Rule]
		if !ok {
			idx = len(run.Tool.Driver.Rules)
			index[m.Rule] = idx
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, newSARIFRule(idx, m.Rule))
		}

		message := m.Rule.Name
		if m.Rule.Hint != "" {
			message += ": " + m.Rule.Hint
		}

		run.Results = append(run.Results, sarifResult{
			RuleID:    run.Tool.Driver.Rules[idx].ID,
			RuleIndex: idx,
			Level:     sarifLevel(m.Rule.Severity()),
			Message:   sarifMessage{Text: message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifact{URI: m.Filename},
					Region: sarifRegion{
						StartLine:   m.StartLine,
						EndLine:     m.EndLine,
						StartColumn: m.StartColumn,
						EndColumn:   m.EndColumn,
					},
				},
			}},
		})
	}

	return &sarifReport{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
}

// newSARIFRule numbers rules in order of first match; names need not be
// unique, so they cannot serve as IDs.
func newSARIFRule(idx int, rule *rules.Rule) sarifRule {
	sr := sarifRule{
		ID:               "relint" + strconv.Itoa(idx+1),
		Name:             rule.Name,
		ShortDescription: sarifMessage{Text: rule.Name},
		DefaultConfig:    sarifConfig{Level: sarifLevel(rule.Severity())},
	}
	if rule.Hint != "" {
		sr.Help = &sarifHelp{Text: rule.Hint, Markdown: rule.Hint}
	}
	return sr
}

func sarifLevel(s rules.Severity) string {
	if s == rules.SeverityError {
		return "error"
	}
	return "warning"
}
