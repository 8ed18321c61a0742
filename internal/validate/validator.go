// internal/validate/validator.go
// Syntax-only validation of patched source. Each format is checked against
// its own grammar; no type resolution is attempted. Formats without a script
// grammar (plain HTML, CSS) are treated as always valid here, keeping this
// layer strictly a "does it still parse as a program" check.
package validate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tshtml "github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"go.uber.org/zap"

	"github.com/quiltline/stitch-cli/internal/markup"
)

// Result is the verdict for one file.
type Result struct {
	Valid  bool
	Errors []string
}

// Validator parses patched text with the format's own grammar and reports
// syntax errors as human-readable `file(line,col): message` strings.
type Validator struct {
	logger *zap.Logger
}

func NewValidator(logger *zap.Logger) *Validator {
	return &Validator{logger: logger.Named("validator")}
}

func (v *Validator) Validate(filePath, content string) Result {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".jsx", ".tsx":
		errs := parseErrors(tsx.GetLanguage(), filePath, content, 0)
		return verdict(errs)
	case ".vue":
		return verdict(v.validateSFC(filePath, content))
	default:
		// HTML and CSS are checked elsewhere.
		return Result{Valid: true}
	}
}

// validateSFC validates the template and script sub-blocks independently and
// concatenates their error lists; an error in either marks the file invalid.
func (v *Validator) validateSFC(filePath, content string) []string {
	var errs []string

	if block, ok := markup.TemplateBlock(content); ok {
		errs = append(errs, parseErrors(tshtml.GetLanguage(), filePath, block.Content, block.StartLine-1)...)
	}
	if block, ok := markup.ScriptBlock(content); ok {
		lang := javascript.GetLanguage()
		if block.Lang == "ts" || block.Lang == "tsx" {
			lang = typescript.GetLanguage()
		}
		errs = append(errs, parseErrors(lang, filePath, block.Content, block.StartLine-1)...)
	}
	return errs
}

func verdict(errs []string) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// parseErrors parses content and turns every ERROR or missing node into a
// diagnostic string. lineOffset translates block-relative lines back into
// file-relative ones for SFC sub-blocks.
func parseErrors(lang *sitter.Language, filePath, content string, lineOffset int) []string {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	src := []byte(content)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return []string{fmt.Sprintf("%s(1,0): parse failed: %v", filePath, err)}
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}

	var errs []string
	collectErrors(root, src, filePath, lineOffset, &errs)
	if len(errs) == 0 {
		// The tree reports an error but no ERROR node surfaced in the walk.
		errs = append(errs, fmt.Sprintf("%s(1,0): source contains syntax errors", filePath))
	}
	return errs
}

func collectErrors(node *sitter.Node, src []byte, filePath string, lineOffset int, out *[]string) {
	if node == nil {
		return
	}
	p := node.StartPoint()
	line := int(p.Row) + 1 + lineOffset
	col := int(p.Column)

	switch {
	case node.IsMissing():
		*out = append(*out, fmt.Sprintf("%s(%d,%d): missing %s", filePath, line, col, node.Type()))
		return
	case node.Type() == "ERROR":
		*out = append(*out, fmt.Sprintf("%s(%d,%d): syntax error near %q",
			filePath, line, col, snippet(node, src)))
		// Nested errors inside an ERROR node add noise, not signal.
		return
	}
	if !node.HasError() {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectErrors(node.Child(i), src, filePath, lineOffset, out)
	}
}

func snippet(node *sitter.Node, src []byte) string {
	s := node.Content(src)
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}
