package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JNZader/relint/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the compiled rules",
	Long: `Compile the rule file and list every rule with its severity and file
pattern. Warning rules escalated by --fail-warnings are marked as failing.

Examples:
  relint rules
  relint rules -c rules.yml --json`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

var rulesJSON bool

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().BoolVar(&rulesJSON, "json", false, "output as JSON")
}

// ruleInfo describes one compiled rule.
type ruleInfo struct {
	Name        string `json:"name"`
	Pattern     string `json:"pattern"`
	FilePattern string `json:"file_pattern"`
	Severity    string `json:"severity"`
	Fails       bool   `json:"fails"`
	Hint        string `json:"hint,omitempty"`
}

func runRules(cmd *cobra.Command, args []string) error {
	rs, err := loadRules(settings)
	if err != nil {
		return err
	}

	infos := make([]ruleInfo, 0, rs.Len())
	for _, r := range rs.Rules {
		infos = append(infos, ruleInfo{
			Name:        r.Name,
			Pattern:     r.Pattern.String(),
			FilePattern: r.FilePattern.String(),
			Severity:    string(r.Severity()),
			Fails:       r.Fail,
			Hint:        r.Hint,
		})
	}

	out := cmd.OutOrStdout()
	if rulesJSON {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal rules: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(infos) == 0 {
		fmt.Fprintln(out, "No rules configured.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tSEVERITY\tFAILS\tFILES\tPATTERN")
	fmt.Fprintln(w, "-\t----\t--------\t-----\t-----\t-------")
	for i, r := range infos {
		fails := "no"
		if r.Fails {
			fails = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, r.Name, r.Severity, fails, r.FilePattern, r.Pattern)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d rules: %d errors, %d warnings\n", rs.Len(),
		len(rules.BySeverity(rs.Rules, rules.SeverityError)),
		len(rules.BySeverity(rs.Rules, rules.SeverityWarning)))
	return nil
}
