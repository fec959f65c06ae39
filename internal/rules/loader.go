package rules

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/JNZader/relint/internal/validation"
)

// DefaultFile is the rule file read when none is given.
const DefaultFile = ".relint.yml"

var validate = validation.New()

// Load reads and compiles the rule file at path.
func Load(path string, opts Options) (*RuleSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the command line
	if err != nil {
		return nil, &ConfigError{Reason: ReasonRead, Rule: -1, Err: err}
	}
	return Parse(data, opts)
}

// Parse compiles rules from YAML source.
func Parse(data []byte, opts Options) (*RuleSet, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Reason: ReasonParse, Rule: -1, Err: err}
	}
	return Compile(doc, opts)
}

// Compile converts an already-decoded document into compiled rules,
// preserving input order. doc must be nil (an empty document) or a list of
// mappings. An empty document or empty list yields no rules and a
// Diagnostic rather than an error.
func Compile(doc any, opts Options) (*RuleSet, error) {
	engine, err := ParseEngine(string(opts.Engine))
	if err != nil {
		return nil, &ConfigError{Reason: ReasonInvalid, Rule: -1, Err: err}
	}

	rs := &RuleSet{Engine: engine}

	if doc == nil {
		rs.Diagnostics = append(rs.Diagnostics, Diagnostic{Rule: -1, Message: MessageEmptyConfig})
		return rs, nil
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, &ConfigError{
			Reason: ReasonShape,
			Rule:   -1,
			Err:    fmt.Errorf("top level is %s, want a list", describe(doc)),
		}
	}

	if len(items) == 0 {
		rs.Diagnostics = append(rs.Diagnostics, Diagnostic{Rule: -1, Message: MessageEmptyConfig})
		return rs, nil
	}

	rs.Rules = make([]*Rule, 0, len(items))
	for i, item := range items {
		raw, err := decodeRaw(i, item)
		if err != nil {
			return nil, err
		}

		if opts.IgnoreWarnings && !raw.DeclaredError() {
			continue
		}

		rule, err := compileRule(i, raw, engine, opts.FailWarnings)
		if err != nil {
			return nil, err
		}
		rs.Rules = append(rs.Rules, rule)
	}

	return rs, nil
}

// decodeRaw turns one untyped record into a validated RawRule.
func decodeRaw(index int, item any) (*RawRule, error) {
	if _, ok := item.(map[string]any); !ok {
		return nil, &ConfigError{
			Reason: ReasonShape,
			Rule:   index,
			Err:    fmt.Errorf("entry is %s, want a mapping", describe(item)),
		}
	}

	raw := &RawRule{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  raw,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, &ConfigError{Reason: ReasonShape, Rule: index, Err: err}
	}
	if err := dec.Decode(item); err != nil {
		return nil, &ConfigError{Reason: ReasonShape, Rule: index, Err: err}
	}

	if err := validate.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &ConfigError{
				Reason: ReasonInvalid,
				Rule:   index,
				Field:  verrs[0].Field(),
				Err:    fmt.Errorf("%s is %s", verrs[0].Field(), verrs[0].Tag()),
			}
		}
		return nil, &ConfigError{Reason: ReasonInvalid, Rule: index, Err: err}
	}

	return raw, nil
}

func compileRule(index int, raw *RawRule, engine Engine, failWarnings bool) (*Rule, error) {
	pattern, err := engine.Compile(*raw.Pattern, true)
	if err != nil {
		return nil, &ConfigError{Reason: ReasonInvalid, Rule: index, Field: "pattern", Err: err}
	}

	filePattern, err := engine.Compile(raw.FilePatternOrDefault(), false)
	if err != nil {
		return nil, &ConfigError{Reason: ReasonInvalid, Rule: index, Field: "filePattern", Err: err}
	}

	declared := raw.DeclaredError()
	return &Rule{
		Name:        *raw.Name,
		Pattern:     pattern,
		Hint:        raw.Hint,
		FilePattern: filePattern,
		Error:       declared,
		Fail:        declared || failWarnings,
	}, nil
}

func describe(v any) string {
	switch v.(type) {
	case map[string]any:
		return "a mapping"
	case []any:
		return "a list"
	case string:
		return "a string"
	case nil:
		return "empty"
	default:
		return fmt.Sprintf("a %T", v)
	}
}
