package lint

import (
	"github.com/JNZader/relint/internal/git"
	"github.com/JNZader/relint/internal/scan"
)

// FilterByDiff keeps the matches that start on a line the diff added.
// Filenames are compared verbatim with the diff's b/ paths, so paths must be
// given relative to the repository root for anything to survive.
func FilterByDiff(changed git.ChangedLines, matches []scan.Match) []scan.Match {
	var kept []scan.Match
	for i := range matches {
		if changed.Contains(matches[i].Filename, matches[i].StartLine) {
			kept = append(kept, matches[i])
		}
	}
	return kept
}

// Restrict applies FilterByDiff to r in place and recomputes the outcome.
func (r *Result) Restrict(changed git.ChangedLines) {
	r.Matches = FilterByDiff(changed, r.Matches)
	for i := range r.Files {
		r.Files[i].Matches = FilterByDiff(changed, r.Files[i].Matches)
	}
	r.Outcome = Aggregate(r.Matches)
}
