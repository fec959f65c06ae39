package rules

import (
	"encoding/hex"
	"strconv"

	"github.com/zeebo/blake3"
)

// ForFile returns the rules whose file pattern matches path, in order.
func ForFile(rules []*Rule, path string) []*Rule {
	var filtered []*Rule
	for _, rule := range rules {
		if rule.AppliesTo(path) {
			filtered = append(filtered, rule)
		}
	}
	return filtered
}

// BySeverity returns the rules whose declared severity is s.
func BySeverity(rules []*Rule, s Severity) []*Rule {
	var filtered []*Rule
	for _, rule := range rules {
		if rule.Severity() == s {
			filtered = append(filtered, rule)
		}
	}
	return filtered
}

// Fingerprint identifies the compiled rule set. Two rule sets with the same
// rules, severities and engine share a fingerprint.
func (rs *RuleSet) Fingerprint() string {
	h := blake3.New()
	_, _ = h.Write([]byte(string(rs.Engine)))
	for _, r := range rs.Rules {
		for _, part := range []string{
			r.Name,
			r.Pattern.String(),
			r.FilePattern.String(),
			r.Hint,
			strconv.FormatBool(r.Error),
			strconv.FormatBool(r.Fail),
		} {
			_, _ = h.Write([]byte(strconv.Itoa(len(part))))
			_, _ = h.Write([]byte(":"))
			_, _ = h.Write([]byte(part))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
