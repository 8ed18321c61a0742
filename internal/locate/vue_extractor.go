// internal/locate/vue_extractor.go
package locate

import (
	"go.uber.org/zap"

	"github.com/quiltline/stitch-cli/internal/markup"
)

// VueExtractor isolates the <template> block of a single-file component and
// scans it as HTML, translating every block-relative location back into a
// file-relative one.
type VueExtractor struct {
	logger *zap.Logger
}

func NewVueExtractor(logger *zap.Logger) *VueExtractor {
	return &VueExtractor{logger: logger.Named("extract.vue")}
}

func (e *VueExtractor) Extract(source, filePath string) ([]CandidateNode, error) {
	block, ok := markup.TemplateBlock(source)
	if !ok {
		e.logger.Debug("No template block found in SFC", zap.String("file", filePath))
		return nil, nil
	}

	elements, err := markup.ScanHTML(block.Content)
	if err != nil {
		return nil, err
	}

	lineOffset := block.StartLine - 1
	candidates := make([]CandidateNode, 0, len(elements))
	for i := range elements {
		candidates = append(candidates, candidateFromElement(&elements[i], lineOffset, block.StartCol))
	}
	e.logger.Debug("Extracted Vue template candidates",
		zap.String("file", filePath), zap.Int("count", len(candidates)))
	return candidates, nil
}
