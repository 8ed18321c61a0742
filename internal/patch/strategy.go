// internal/patch/strategy.go
// Format-specific patch application. One polymorphic capability with three
// variant implementations, selected by file extension: offset-based splicing
// for static HTML, AST-guided splicing for JSX/TSX, line/column splicing for
// Vue templates.
package patch

import (
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/quiltline/stitch-cli/api/schemas"
)

// Result counts the per-fix outcomes of one patch pass. A skipped fix never
// aborts the rest of the pass.
type Result struct {
	Applied int
	Skipped int
}

// Strategy turns a list of fix instructions with resolved source locations
// into new source text. Fixes without a resolvable location are skipped with
// a warning.
type Strategy interface {
	ApplyFixes(source string, fixes []*schemas.Fix) (string, Result)
}

// ForFile selects the patch strategy for a file by extension, or nil when the
// extension is not handled by this core.
func ForFile(path string, logger *zap.Logger) Strategy {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return NewHTMLStrategy(logger)
	case ".jsx", ".tsx":
		return NewJSXStrategy(logger)
	case ".vue":
		return NewVueStrategy(logger)
	default:
		return nil
	}
}

var attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;")

// escapeAttr makes a value safe to embed inside a double-quoted attribute.
func escapeAttr(value string) string {
	return attrEscaper.Replace(value)
}

func isIdentByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_':
		return true
	}
	return false
}

// identEnd returns the end of the identifier run starting at start.
func identEnd(s string, start int) int {
	end := start
	for end < len(s) && isIdentByte(s[end]) {
		end++
	}
	return end
}

// sortedKeys gives deterministic application order for attribute payloads.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
