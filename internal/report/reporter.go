// Package report renders lint results.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/JNZader/relint/internal/lint"
)

// Reporter renders a lint result.
type Reporter interface {
	// Write writes the report to a writer.
	Write(w io.Writer, result *lint.Result) error

	// Format returns the format name.
	Format() string
}

// Options carries the presentation settings shared by reporters. Each
// reporter reads only the fields it needs.
type Options struct {
	// MsgTemplate is the text/template for the text format.
	MsgTemplate string

	// Summarize groups panel output by rule.
	Summarize bool

	// CodePadding is the number of context lines around a match in panel
	// output. -1 hides the excerpt.
	CodePadding int

	// Color enables ANSI colors in panel output.
	Color bool

	// Version is reported as the tool version in SARIF output.
	Version string
}

// Format names.
const (
	FormatAuto     = "auto"
	FormatText     = "text"
	FormatPanel    = "panel"
	FormatGitHub   = "github"
	FormatJSON     = "json"
	FormatSARIF    = "sarif"
	FormatMarkdown = "markdown"
)

// NewReporter creates a reporter for the given format.
func NewReporter(format string, opts Options) (Reporter, error) {
	switch format {
	case FormatText:
		return NewTextReporter(opts.MsgTemplate)
	case FormatPanel:
		return &PanelReporter{Summarize: opts.Summarize, CodePadding: opts.CodePadding, Color: opts.Color}, nil
	case FormatGitHub:
		return &GitHubReporter{}, nil
	case FormatJSON:
		return &JSONReporter{Indent: true}, nil
	case FormatSARIF:
		return &SARIFReporter{Version: opts.Version}, nil
	case FormatMarkdown:
		return &MarkdownReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (available: %s)", format, strings.Join(AvailableFormats(), ", "))
	}
}

// AvailableFormats returns the list of supported formats.
func AvailableFormats() []string {
	return []string{FormatText, FormatPanel, FormatGitHub, FormatJSON, FormatSARIF, FormatMarkdown}
}

// ResolveFormat replaces "auto" with a concrete format: github inside
// GitHub Actions, panel on a terminal, text otherwise.
func ResolveFormat(format string, getenv func(string) string, terminal bool) string {
	if format != FormatAuto && format != "" {
		return format
	}
	switch {
	case getenv("GITHUB_ACTIONS") == "true":
		return FormatGitHub
	case terminal:
		return FormatPanel
	default:
		return FormatText
	}
}
