// internal/locate/types.go
// Types shared by the candidate extractors and the source searcher.
package locate

import (
	"fmt"

	"github.com/quiltline/stitch-cli/api/schemas"
)

// CandidateNode is one element found while scanning a source file: a possible
// match for a signature. Candidates are built fresh per search and never
// persisted.
type CandidateNode struct {
	Tag        string
	Text       string
	Classes    []string
	Attributes map[string]string
	// Location marks the start of the opening tag: 1-based line, 0-based column.
	Location schemas.Position
	// ClosingLocation is set for elements with a separate closing tag.
	ClosingLocation *schemas.Position
}

// SearchResult is the single best candidate match across a source tree.
type SearchResult struct {
	File   string
	Line   int
	Column int
	Score  int
	Node   CandidateNode
}

// SourceLocation converts the result into the fix metadata record, making it
// authoritative over the fix's selector from here on.
func (r *SearchResult) SourceLocation() *schemas.SourceLocation {
	loc := &schemas.SourceLocation{
		Source: r.File,
		Line:   r.Line,
		Column: r.Column,
	}
	if r.Node.ClosingLocation != nil {
		c := *r.Node.ClosingLocation
		loc.Closing = &c
	}
	return loc
}

func (r *SearchResult) String() string {
	return fmt.Sprintf("%s:%d:%d (score %d)", r.File, r.Line, r.Column, r.Score)
}
