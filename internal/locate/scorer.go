// internal/locate/scorer.go
package locate

import (
	"strings"

	"github.com/quiltline/stitch-cli/api/schemas"
)

// Evidence weights. Tunable, but the ordering of evidence strength must hold:
// an id match dominates everything, exact text beats partial text, and shared
// classes are weaker than matching attributes.
const (
	weightTagMatch    = 10
	weightTextExact   = 50
	weightTextPartial = 20
	weightIDMatch     = 100
	weightPerClass    = 5
	weightPerAttr     = 10
)

// Score ranks how likely candidate is the element described by sig. Higher is
// better; 0 means "not a candidate" and excludes the match entirely. Tag
// equality is a hard filter: different tags never match regardless of other
// evidence.
func Score(sig *schemas.Signature, candidate *CandidateNode) int {
	if !strings.EqualFold(sig.Tag, candidate.Tag) {
		return 0
	}
	score := weightTagMatch

	sigText := strings.ToLower(strings.TrimSpace(sig.Text))
	candText := strings.ToLower(strings.TrimSpace(candidate.Text))
	switch {
	case sigText != "" && sigText == candText:
		score += weightTextExact
	case sigText != "" && candText != "" &&
		(strings.Contains(candText, sigText) || strings.Contains(sigText, candText)):
		score += weightTextPartial
	}

	// ids are assumed unique within a document, so this is the dominant signal.
	if id := sig.Attributes["id"]; id != "" && candidate.Attributes["id"] == id {
		score += weightIDMatch
	}

	candClasses := make(map[string]bool, len(candidate.Classes))
	for _, c := range candidate.Classes {
		candClasses[c] = true
	}
	for _, c := range sig.Classes {
		if candClasses[c] {
			score += weightPerClass
		}
	}

	for name, value := range sig.Attributes {
		if name == "id" || name == "class" {
			continue
		}
		if candidate.Attributes[name] == value {
			score += weightPerAttr
		}
	}

	return score
}
