// internal/patch/jsx_strategy.go
package patch

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"go.uber.org/zap"

	"github.com/quiltline/stitch-cli/api/schemas"
)

// JSXStrategy patches JSX/TSX files by re-parsing them and splicing edits at
// byte offsets resolved from the syntax tree. Tree-sitter trees are
// immutable, so "mutate and re-serialize" becomes "splice at AST-resolved
// offsets": text not touched by a fix stays byte-identical, and a pass where
// no fix matches a node returns the original text unchanged.
type JSXStrategy struct {
	logger *zap.Logger
}

func NewJSXStrategy(logger *zap.Logger) *JSXStrategy {
	return &JSXStrategy{logger: logger.Named("patch.jsx")}
}

// jsxTarget is one JSX markup expression with its opening and (optional)
// closing tag nodes.
type jsxTarget struct {
	open    *sitter.Node
	closing *sitter.Node
}

func (s *JSXStrategy) ApplyFixes(source string, fixes []*schemas.Fix) (string, Result) {
	var res Result

	parser := sitter.NewParser()
	parser.SetLanguage(tsx.GetLanguage())

	src := []byte(source)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		s.logger.Warn("Failed to parse JSX source; returning it unchanged", zap.Error(err))
		res.Skipped = len(fixes)
		return source, res
	}
	defer tree.Close()

	targets := map[int]jsxTarget{}
	collectJSXTargets(tree.RootNode(), targets)

	var reps []Replacement
	for _, fix := range fixes {
		loc := fix.Location()
		if loc == nil {
			s.logger.Warn("Fix has no resolved source location; skipping",
				zap.String("fixType", string(fix.Type)))
			res.Skipped++
			continue
		}
		target, ok := targets[loc.Line]
		if !ok {
			s.logger.Warn("No JSX element starts on resolved line; skipping fix",
				zap.Int("line", loc.Line))
			res.Skipped++
			continue
		}

		fixReps, err := s.replacementsFor(src, target, fix)
		if err != nil {
			s.logger.Warn("Skipping fix", zap.Error(err))
			res.Skipped++
			continue
		}
		reps = append(reps, fixReps...)
		res.Applied++
	}

	if len(reps) == 0 {
		return source, res
	}
	return Apply(source, reps), res
}

// collectJSXTargets indexes every JSX markup expression by the 1-based line
// its opening tag starts on. The first element on a line wins.
func collectJSXTargets(node *sitter.Node, out map[int]jsxTarget) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "jsx_element":
		var open, closing *sitter.Node
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			switch child.Type() {
			case "jsx_opening_element":
				open = child
			case "jsx_closing_element":
				closing = child
			}
		}
		if open != nil {
			line := int(open.StartPoint().Row) + 1
			if _, seen := out[line]; !seen {
				out[line] = jsxTarget{open: open, closing: closing}
			}
		}
	case "jsx_self_closing_element":
		line := int(node.StartPoint().Row) + 1
		if _, seen := out[line]; !seen {
			out[line] = jsxTarget{open: node}
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectJSXTargets(node.Child(i), out)
	}
}

func (s *JSXStrategy) replacementsFor(src []byte, target jsxTarget, fix *schemas.Fix) ([]Replacement, error) {
	switch fix.Type {
	case schemas.FixAddAttribute, schemas.FixReplaceAttribute:
		if fix.Payload.Attribute == "" {
			return nil, fmt.Errorf("%s fix has an empty attribute name", fix.Type)
		}
		return []Replacement{jsxAttrReplacement(src, target.open, fix.Payload.Attribute, fix.Payload.Value)}, nil

	case schemas.FixConvertTag:
		if fix.Payload.TagName == "" {
			return nil, fmt.Errorf("convert-tag fix has an empty tag name")
		}
		reps, err := jsxRenameReplacements(target, fix.Payload.TagName)
		if err != nil {
			return nil, err
		}
		for _, name := range sortedKeys(fix.Payload.Attributes) {
			reps = append(reps, jsxAttrReplacement(src, target.open, name, fix.Payload.Attributes[name]))
		}
		return reps, nil

	default:
		return nil, fmt.Errorf("unsupported fix type %q for JSX", fix.Type)
	}
}

// jsxAttrReplacement updates the existing attribute's value node if present,
// else appends a new attribute before the opening tag's terminator.
func jsxAttrReplacement(src []byte, open *sitter.Node, name, value string) Replacement {
	escaped := escapeAttr(value)
	attrText := name + `="` + escaped + `"`

	if attr := findJSXAttribute(src, open, name); attr != nil {
		if int(attr.NamedChildCount()) >= 2 {
			valueNode := attr.NamedChild(1)
			return Replacement{
				Start: int(valueNode.StartByte()),
				End:   int(valueNode.EndByte()),
				Text:  `"` + escaped + `"`,
			}
		}
		// Bare attribute.
		return Replacement{Start: int(attr.StartByte()), End: int(attr.EndByte()), Text: attrText}
	}

	at := int(open.EndByte()) - 1 // before '>'
	if open.Type() == "jsx_self_closing_element" {
		at = int(open.EndByte()) - 2 // before '/>'
	}
	text := " " + attrText
	if at > 0 && (src[at-1] == ' ' || src[at-1] == '\t' || src[at-1] == '\n') {
		text = text[1:]
	}
	return Replacement{Start: at, End: at, Text: text}
}

func findJSXAttribute(src []byte, open *sitter.Node, name string) *sitter.Node {
	for i := 0; i < int(open.ChildCount()); i++ {
		child := open.Child(i)
		if child.Type() != "jsx_attribute" {
			continue
		}
		nameNode := child.NamedChild(0)
		if nameNode != nil && strings.EqualFold(nameNode.Content(src), name) {
			return child
		}
	}
	return nil
}

// jsxRenameReplacements renames the identifier on the opening tag and, when
// present, the closing tag.
func jsxRenameReplacements(target jsxTarget, newTag string) ([]Replacement, error) {
	openName := target.open.ChildByFieldName("name")
	if openName == nil {
		openName = target.open.NamedChild(0)
	}
	if openName == nil {
		return nil, fmt.Errorf("opening tag has no name node")
	}
	reps := []Replacement{{Start: int(openName.StartByte()), End: int(openName.EndByte()), Text: newTag}}

	if target.closing != nil {
		closeName := target.closing.ChildByFieldName("name")
		if closeName == nil {
			closeName = target.closing.NamedChild(0)
		}
		if closeName != nil {
			reps = append(reps, Replacement{
				Start: int(closeName.StartByte()),
				End:   int(closeName.EndByte()),
				Text:  newTag,
			})
		}
	}
	return reps, nil
}
