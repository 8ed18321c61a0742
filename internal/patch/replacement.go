// internal/patch/replacement.go
package patch

import "sort"

// Replacement is one unit of text surgery: a half-open byte range [Start, End)
// in the original text plus its replacement string. Ranges within one patch
// pass must not overlap.
type Replacement struct {
	Start int
	End   int
	Text  string
}

// Apply splices replacements into src in descending Start order, so earlier
// offsets remain valid after later substitutions are made. Replacements with
// invalid ranges, or ranges overlapping an already-applied one, are dropped.
func Apply(src string, reps []Replacement) string {
	if len(reps) == 0 {
		return src
	}
	sorted := make([]Replacement, len(reps))
	copy(sorted, reps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start > sorted[j].Start })

	out := src
	lastStart := len(src) + 1
	for _, r := range sorted {
		if r.Start < 0 || r.End < r.Start || r.End > len(src) {
			continue
		}
		if r.End > lastStart {
			continue // overlaps the previously applied replacement
		}
		out = out[:r.Start] + r.Text + out[r.End:]
		lastStart = r.Start
	}
	return out
}
