package config

import (
	"time"

	"github.com/JNZader/relint/internal/rules"
)

// DefaultMsgTemplate renders one match per block: location and rule name,
// the hint, then the matched source lines.
const DefaultMsgTemplate = "{{.Filename}}:{{.Line}} {{.Rule.Name}}\n{{with .Rule.Hint}}Hint: {{.}}\n{{end}}{{.Match}}\n"

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			File:   rules.DefaultFile,
			Engine: string(rules.EngineRE2),
		},
		Output: OutputConfig{
			Format:      "auto",
			MsgTemplate: DefaultMsgTemplate,
			CodePadding: 2,
			Color:       "auto",
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        time.Hour,
			MaxEntries: 10000,
		},
	}
}
