// internal/locate/extractor.go
package locate

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Extractor parses one source file into a flat list of candidate nodes, one
// per markup element. A parse failure yields an error; the caller logs it and
// treats the file as contributing zero candidates.
type Extractor interface {
	Extract(source, filePath string) ([]CandidateNode, error)
}

// ForFile selects the extractor for a file by extension. It returns nil for
// extensions this core does not handle.
func ForFile(path string, logger *zap.Logger) Extractor {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return NewHTMLExtractor(logger)
	case ".jsx", ".tsx":
		return NewJSXExtractor(logger)
	case ".vue":
		return NewVueExtractor(logger)
	default:
		return nil
	}
}

func splitClasses(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Fields(raw)
}
