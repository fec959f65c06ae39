package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/JNZader/relint/internal/lint"
	"github.com/JNZader/relint/internal/rules"
	"github.com/JNZader/relint/internal/scan"
)

const highlightMarker = "❱ "

// PanelReporter draws a bordered panel per match, or per rule when
// summarizing, for reading on a terminal.
type PanelReporter struct {
	Summarize   bool
	CodePadding int
	Color       bool
}

func (r *PanelReporter) Format() string { return FormatPanel }

type panelStyles struct {
	errorBox   lipgloss.Style
	warningBox lipgloss.Style
	errorTitle lipgloss.Style
	warnTitle  lipgloss.Style
	subtitle   lipgloss.Style
	lineNo     lipgloss.Style
	highlight  lipgloss.Style
	hintBox    lipgloss.Style
	hintTitle  lipgloss.Style
}

func newPanelStyles(re *lipgloss.Renderer) panelStyles {
	box := re.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	return panelStyles{
		errorBox:   box.BorderForeground(lipgloss.Color("1")),
		warningBox: box.BorderForeground(lipgloss.Color("3")),
		errorTitle: re.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		warnTitle:  re.NewStyle().Foreground(lipgloss.Color("3")),
		subtitle:   re.NewStyle().Faint(true),
		lineNo:     re.NewStyle().Faint(true),
		highlight:  re.NewStyle().Bold(true),
		hintBox:    re.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 2),
		hintTitle:  re.NewStyle().Bold(true),
	}
}

func (s panelStyles) forRule(rule *rules.Rule) (box, title lipgloss.Style) {
	if rule.Severity() == rules.SeverityError {
		return s.errorBox, s.errorTitle
	}
	return s.warningBox, s.warnTitle
}

func (r *PanelReporter) Write(w io.Writer, result *lint.Result) error {
	re := lipgloss.NewRenderer(w)
	if r.Color {
		re.SetColorProfile(termenv.ANSI256)
	} else {
		re.SetColorProfile(termenv.Ascii)
	}
	styles := newPanelStyles(re)

	var panels []string
	if r.Summarize {
		panels = r.summaryPanels(styles, result.Matches)
	} else {
		for i := range result.Matches {
			panels = append(panels, r.matchPanel(styles, &result.Matches[i]))
		}
	}

	if len(panels) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(panels, "\n")+"\n")
	return err
}

func (r *PanelReporter) matchPanel(s panelStyles, m *scan.Match) string {
	box, title := s.forRule(m.Rule)

	parts := []string{title.Render(panelTitle(m.Rule))}
	if r.CodePadding >= 0 {
		parts = append(parts, excerpt(s, m, r.CodePadding))
	}
	if m.Rule.Hint != "" {
		parts = append(parts, hintPanel(s, m.Rule.Hint))
	}
	parts = append(parts, s.subtitle.Render(fmt.Sprintf("%s:%d", m.Filename, m.StartLine)))

	return box.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (r *PanelReporter) summaryPanels(s panelStyles, matches []scan.Match) []string {
	var order []*rules.Rule
	locations := make(map[*rules.Rule][]string)
	for i := range matches {
		m := &matches[i]
		if _, seen := locations[m.Rule]; !seen {
			order = append(order, m.Rule)
		}
		locations[m.Rule] = append(locations[m.Rule], fmt.Sprintf("%s:%d", m.Filename, m.StartLine))
	}

	panels := make([]string, 0, len(order))
	for _, rule := range order {
		box, title := s.forRule(rule)
		locs := locations[rule]

		parts := []string{title.Render(panelTitle(rule)), strings.Join(locs, "\n")}
		if rule.Hint != "" {
			parts = append(parts, hintPanel(s, rule.Hint))
		}
		parts = append(parts, s.subtitle.Render(fmt.Sprintf("%d occurrence(s)", len(locs))))

		panels = append(panels, box.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}
	return panels
}

func panelTitle(rule *rules.Rule) string {
	return rule.Severity().Title() + ": " + rule.Name
}

func hintPanel(s panelStyles, hint string) string {
	hint = strings.TrimRight(strings.ReplaceAll(hint, "\t", "    "), "\n")
	return s.hintBox.Render(s.hintTitle.Render("Hint:") + "\n" + hint)
}

// excerpt renders the lines StartLine-padding .. EndLine+padding of the
// match's file with line numbers, marking the matched lines.
func excerpt(s panelStyles, m *scan.Match, padding int) string {
	lines := strings.Split(strings.TrimSuffix(m.Content, "\n"), "\n")

	from := max(1, m.StartLine-padding)
	to := min(len(lines), m.EndLine+padding)
	width := len(strconv.Itoa(to))

	var sb strings.Builder
	for n := from; n <= to; n++ {
		text := strings.ReplaceAll(strings.TrimSuffix(lines[n-1], "\r"), "\t", "    ")
		num := fmt.Sprintf("%*d", width, n)

		if n >= m.StartLine && n <= m.EndLine {
			sb.WriteString(s.highlight.Render(highlightMarker + num + " " + text))
		} else {
			sb.WriteString("  " + s.lineNo.Render(num) + " " + text)
		}
		if n < to {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
