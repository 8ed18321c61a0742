// internal/patch/html_strategy.go
package patch

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/quiltline/stitch-cli/api/schemas"
	"github.com/quiltline/stitch-cli/internal/markup"
)

// HTMLStrategy patches static HTML by offset-based text splicing. The source
// is re-scanned with full tag offsets preserved; every edit becomes a
// Replacement and all replacements are spliced in descending start order.
type HTMLStrategy struct {
	logger *zap.Logger
}

func NewHTMLStrategy(logger *zap.Logger) *HTMLStrategy {
	return &HTMLStrategy{logger: logger.Named("patch.html")}
}

func (s *HTMLStrategy) ApplyFixes(source string, fixes []*schemas.Fix) (string, Result) {
	var res Result

	elements, err := markup.ScanHTML(source)
	if err != nil {
		s.logger.Warn("Failed to scan HTML source; returning it unchanged", zap.Error(err))
		res.Skipped = len(fixes)
		return source, res
	}

	var reps []Replacement
	for _, fix := range fixes {
		loc := fix.Location()
		if loc == nil {
			s.logger.Warn("Fix has no resolved source location; skipping",
				zap.String("fixType", string(fix.Type)))
			res.Skipped++
			continue
		}
		el := elementAt(elements, loc.Line, loc.Column)
		if el == nil {
			s.logger.Warn("No element at resolved location; skipping fix",
				zap.Int("line", loc.Line), zap.Int("column", loc.Column))
			res.Skipped++
			continue
		}

		fixReps, err := s.replacementsFor(source, el, fix)
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

func (s *HTMLStrategy) replacementsFor(source string, el *markup.Element, fix *schemas.Fix) ([]Replacement, error) {
	switch fix.Type {
	case schemas.FixAddAttribute, schemas.FixReplaceAttribute:
		if fix.Payload.Attribute == "" {
			return nil, fmt.Errorf("%s fix has an empty attribute name", fix.Type)
		}
		return []Replacement{attrReplacement(source, el, fix.Payload.Attribute, fix.Payload.Value)}, nil

	case schemas.FixConvertTag:
		if fix.Payload.TagName == "" {
			return nil, fmt.Errorf("convert-tag fix has an empty tag name")
		}
		reps := tagRenameReplacements(source, el, fix.Payload.TagName)
		for _, name := range sortedKeys(fix.Payload.Attributes) {
			reps = append(reps, attrReplacement(source, el, name, fix.Payload.Attributes[name]))
		}
		return reps, nil

	case schemas.FixAddElement:
		if fix.Payload.Element == "" {
			return nil, fmt.Errorf("add-element fix has an empty element payload")
		}
		at := el.Start
		if fix.Payload.Insert == "after" {
			at = el.End
			if el.HasClosing() {
				at = el.CloseEnd
			}
		}
		return []Replacement{{Start: at, End: at, Text: fix.Payload.Element}}, nil

	default:
		return nil, fmt.Errorf("unsupported fix type %q for HTML", fix.Type)
	}
}

// attrReplacement either rewrites exactly the value span of an existing
// attribute or inserts ` name="value"` immediately before the tag's closing
// '>' (before the trailing '/>' for self-closing tags).
func attrReplacement(source string, el *markup.Element, name, value string) Replacement {
	escaped := escapeAttr(value)
	if a, ok := el.Attr(name); ok {
		if a.HasValue {
			return Replacement{Start: a.ValStart, End: a.ValEnd, Text: escaped}
		}
		// Bare attribute: give it a value.
		return Replacement{Start: a.NameStart, End: a.NameEnd, Text: name + `="` + escaped + `"`}
	}

	at := el.End - 1 // before '>'
	if el.End >= 2 && source[el.End-2] == '/' {
		at = el.End - 2
	}
	text := " " + name + `="` + escaped + `"`
	if at > 0 && (source[at-1] == ' ' || source[at-1] == '\t') {
		text = text[1:]
	}
	return Replacement{Start: at, End: at, Text: text}
}

// tagRenameReplacements rewrites only the tag-name spans: immediately after
// '<' in the opening tag and, when a closing tag exists, immediately after
// '</'. All attributes stay untouched.
func tagRenameReplacements(source string, el *markup.Element, newTag string) []Replacement {
	openStart := el.Start + 1
	reps := []Replacement{{Start: openStart, End: identEnd(source, openStart), Text: newTag}}
	if el.HasClosing() {
		closeStart := el.CloseStart + 2
		reps = append(reps, Replacement{Start: closeStart, End: identEnd(source, closeStart), Text: newTag})
	}
	return reps
}

// elementAt finds the element whose opening tag starts at the given position.
// When no element matches line and column exactly, the first element on the
// line is accepted; columns can drift by a byte when sources shift between
// signature capture and patching.
func elementAt(elements []markup.Element, line, col int) *markup.Element {
	var onLine *markup.Element
	for i := range elements {
		el := &elements[i]
		if el.Line != line {
			continue
		}
		if el.Col == col {
			return el
		}
		if onLine == nil {
			onLine = el
		}
	}
	return onLine
}
