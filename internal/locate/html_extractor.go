// internal/locate/html_extractor.go
package locate

import (
	"go.uber.org/zap"

	"github.com/quiltline/stitch-cli/api/schemas"
	"github.com/quiltline/stitch-cli/internal/markup"
)

// HTMLExtractor scans static HTML with full source-location tracking. The
// tokenizer never synthesizes elements, so an implicit <html>/<head>/<body>
// absent from the raw source cannot leak in as a candidate.
type HTMLExtractor struct {
	logger *zap.Logger
}

func NewHTMLExtractor(logger *zap.Logger) *HTMLExtractor {
	return &HTMLExtractor{logger: logger.Named("extract.html")}
}

func (e *HTMLExtractor) Extract(source, filePath string) ([]CandidateNode, error) {
	elements, err := markup.ScanHTML(source)
	if err != nil {
		return nil, err
	}
	candidates := make([]CandidateNode, 0, len(elements))
	for i := range elements {
		candidates = append(candidates, candidateFromElement(&elements[i], 0, 0))
	}
	e.logger.Debug("Extracted HTML candidates",
		zap.String("file", filePath), zap.Int("count", len(candidates)))
	return candidates, nil
}

// candidateFromElement converts a scanned element, shifting its location by
// lineOffset/firstLineColOffset for block-embedded sources (Vue templates).
func candidateFromElement(el *markup.Element, lineOffset, firstLineColOffset int) CandidateNode {
	attrs := make(map[string]string, len(el.Attrs))
	for _, a := range el.Attrs {
		attrs[a.Name] = a.Value
	}
	node := CandidateNode{
		Tag:        el.Tag,
		Text:       el.Text,
		Classes:    splitClasses(attrs["class"]),
		Attributes: attrs,
		Location:   shiftPosition(el.Line, el.Col, lineOffset, firstLineColOffset),
	}
	if el.HasClosing() {
		closing := shiftPosition(el.CloseLine, el.CloseCol, lineOffset, firstLineColOffset)
		node.ClosingLocation = &closing
	}
	return node
}

func shiftPosition(line, col, lineOffset, firstLineColOffset int) schemas.Position {
	p := schemas.Position{Line: line + lineOffset, Column: col}
	if line == 1 {
		p.Column += firstLineColOffset
	}
	return p
}
