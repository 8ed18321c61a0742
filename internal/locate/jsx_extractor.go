// internal/locate/jsx_extractor.go
package locate

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"go.uber.org/zap"

	"github.com/quiltline/stitch-cli/api/schemas"
)

// memberExpressionTag is the generic placeholder for tags like Namespace.Sub
// whose rendered tag name cannot be resolved statically.
const memberExpressionTag = "component"

// JSXExtractor parses JSX/TSX files as a syntax tree and emits one candidate
// per markup expression. The TSX grammar is a superset of the JSX one, so a
// single parser covers both extensions.
type JSXExtractor struct {
	logger *zap.Logger
}

func NewJSXExtractor(logger *zap.Logger) *JSXExtractor {
	return &JSXExtractor{logger: logger.Named("extract.jsx")}
}

func (e *JSXExtractor) Extract(source, filePath string) ([]CandidateNode, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tsx.GetLanguage())

	src := []byte(source)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter failed to parse %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		e.logger.Warn("Syntax errors in JSX source; extraction may be incomplete",
			zap.String("file", filePath))
	}

	var candidates []CandidateNode
	e.walk(root, src, &candidates)
	e.logger.Debug("Extracted JSX candidates",
		zap.String("file", filePath), zap.Int("count", len(candidates)))
	return candidates, nil
}

func (e *JSXExtractor) walk(node *sitter.Node, src []byte, out *[]CandidateNode) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "jsx_element":
		if cand, ok := e.candidateFromElement(node, src); ok {
			*out = append(*out, cand)
		}
	case "jsx_self_closing_element":
		if cand, ok := e.candidateFromTag(node, node, src); ok {
			*out = append(*out, cand)
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		e.walk(node.Child(i), src, out)
	}
}

func (e *JSXExtractor) candidateFromElement(node *sitter.Node, src []byte) (CandidateNode, bool) {
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
	if open == nil {
		return CandidateNode{}, false
	}

	cand, ok := e.candidateFromTag(node, open, src)
	if !ok {
		return CandidateNode{}, false
	}
	cand.Text = literalText(node, src)
	if closing != nil {
		p := closing.StartPoint()
		cand.ClosingLocation = &schemas.Position{Line: int(p.Row) + 1, Column: int(p.Column)}
	}
	return cand, true
}

// candidateFromTag builds a candidate from an opening (or self-closing)
// element. outer supplies the location of the whole markup expression.
func (e *JSXExtractor) candidateFromTag(outer, tag *sitter.Node, src []byte) (CandidateNode, bool) {
	name := resolveTagName(tag, src)
	if name == "" {
		return CandidateNode{}, false
	}

	attrs := map[string]string{}
	for i := 0; i < int(tag.ChildCount()); i++ {
		child := tag.Child(i)
		if child.Type() != "jsx_attribute" {
			continue
		}
		attrName, attrValue, ok := literalAttribute(child, src)
		if !ok {
			// Non-string expression values are left out, not guessed.
			continue
		}
		attrs[attrName] = attrValue
	}

	classes := splitClasses(attrs["class"])
	if len(classes) == 0 {
		classes = splitClasses(attrs["classname"])
	}

	p := outer.StartPoint()
	return CandidateNode{
		Tag:        name,
		Classes:    classes,
		Attributes: attrs,
		Location:   schemas.Position{Line: int(p.Row) + 1, Column: int(p.Column)},
	}, true
}

// resolveTagName returns the tag identifier, collapsing member-expression
// tags (Namespace.Sub) to a generic placeholder.
func resolveTagName(tag *sitter.Node, src []byte) string {
	name := tag.ChildByFieldName("name")
	if name == nil {
		// Grammar variations: fall back to the first named child.
		name = tag.NamedChild(0)
	}
	if name == nil {
		return ""
	}
	switch name.Type() {
	case "identifier", "jsx_identifier":
		return name.Content(src)
	default:
		// nested_identifier / member_expression / namespace name.
		return memberExpressionTag
	}
}

// literalAttribute flattens an inline string attribute. It reports ok=false
// for attribute values that are non-string expressions.
func literalAttribute(attr *sitter.Node, src []byte) (string, string, bool) {
	nameNode := attr.NamedChild(0)
	if nameNode == nil {
		return "", "", false
	}
	name := strings.ToLower(nameNode.Content(src))

	if int(attr.NamedChildCount()) < 2 {
		// Bare attribute: <input disabled />
		return name, "", true
	}

	value := attr.NamedChild(1)
	if s, ok := stringLiteral(value, src); ok {
		return name, s, true
	}
	return "", "", false
}

// stringLiteral unwraps a string node, or a jsx_expression that wraps exactly
// one string node.
func stringLiteral(node *sitter.Node, src []byte) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Type() {
	case "string":
		return strings.Trim(node.Content(src), "\"'`"), true
	case "jsx_expression":
		if int(node.NamedChildCount()) == 1 {
			return stringLiteral(node.NamedChild(0), src)
		}
	}
	return "", false
}

// literalText concatenates literal text children and literal-string expression
// children of a jsx_element. Other expression children contribute no text.
func literalText(element *sitter.Node, src []byte) string {
	var parts []string
	for i := 0; i < int(element.ChildCount()); i++ {
		child := element.Child(i)
		switch child.Type() {
		case "jsx_text":
			parts = append(parts, child.Content(src))
		case "jsx_expression":
			if s, ok := stringLiteral(child, src); ok {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
