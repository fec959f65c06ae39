// Package lint runs compiled rules over files and reduces the matches to a
// single outcome.
package lint

import (
	"fmt"
	"time"

	"github.com/JNZader/relint/internal/rules"
	"github.com/JNZader/relint/internal/scan"
)

// Outcome is the aggregate severity of a run. Larger values are worse.
type Outcome int

const (
	OutcomeClean Outcome = iota
	OutcomeWarning
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClean:
		return "clean"
	case OutcomeWarning:
		return "warning"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// OutcomeOf returns the outcome a single match of rule contributes. Rules
// escalated by fail-on-warnings count as errors.
func OutcomeOf(rule *rules.Rule) Outcome {
	if rule.EffectiveSeverity() == rules.SeverityError {
		return OutcomeError
	}
	return OutcomeWarning
}

// Aggregate folds matches into the worst outcome observed. No matches is
// OutcomeClean; once OutcomeError is reached it never decreases.
func Aggregate(matches []scan.Match) Outcome {
	outcome := OutcomeClean
	for i := range matches {
		if o := OutcomeOf(matches[i].Rule); o > outcome {
			outcome = o
			if outcome == OutcomeError {
				break
			}
		}
	}
	return outcome
}

// FileResult is what happened to one input path.
type FileResult struct {
	Path    string
	Matches []scan.Match

	// Skipped is set for directories, non-text files and unreadable paths.
	Skipped bool
	Cached  bool
	Err     error
}

// Result is the outcome of a run: every match, in input path order, and
// the aggregate severity.
type Result struct {
	Matches []scan.Match
	Outcome Outcome
	Files   []FileResult

	FilesScanned int
	FilesSkipped int
	Duration     time.Duration
}

// Counts returns the number of matches per effective severity.
func (r *Result) Counts() (errors, warnings int) {
	for i := range r.Matches {
		if OutcomeOf(r.Matches[i].Rule) == OutcomeError {
			errors++
		} else {
			warnings++
		}
	}
	return errors, warnings
}

// newResult flattens per-file results, preserving their order.
func newResult(files []FileResult) *Result {
	r := &Result{Files: files}
	for i := range files {
		if files[i].Skipped {
			r.FilesSkipped++
			continue
		}
		r.FilesScanned++
		r.Matches = append(r.Matches, files[i].Matches...)
	}
	r.Outcome = Aggregate(r.Matches)
	return r
}
