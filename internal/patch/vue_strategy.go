// internal/patch/vue_strategy.go
package patch

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/quiltline/stitch-cli/api/schemas"
)

// VueStrategy patches Vue single-file components by line/column text
// splicing on the raw source. The template grammar has no reliable
// round-trip serialization, so edits operate on lines directly; fixes are
// applied in descending line order so that a splice never shifts the
// positions of a fix still waiting on an earlier line.
type VueStrategy struct {
	logger *zap.Logger
}

func NewVueStrategy(logger *zap.Logger) *VueStrategy {
	return &VueStrategy{logger: logger.Named("patch.vue")}
}

func (s *VueStrategy) ApplyFixes(source string, fixes []*schemas.Fix) (string, Result) {
	var res Result
	lines := strings.Split(source, "\n")

	ordered := make([]*schemas.Fix, 0, len(fixes))
	for _, fix := range fixes {
		if fix.Location() == nil {
			s.logger.Warn("Fix has no resolved source location; skipping",
				zap.String("fixType", string(fix.Type)))
			res.Skipped++
			continue
		}
		ordered = append(ordered, fix)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Location().Line > ordered[j].Location().Line
	})

	for _, fix := range ordered {
		if err := s.applyOne(lines, fix); err != nil {
			s.logger.Warn("Skipping fix", zap.Error(err))
			res.Skipped++
			continue
		}
		res.Applied++
	}

	if res.Applied == 0 {
		return source, res
	}
	return strings.Join(lines, "\n"), res
}

func (s *VueStrategy) applyOne(lines []string, fix *schemas.Fix) error {
	loc := fix.Location()

	switch fix.Type {
	case schemas.FixAddAttribute, schemas.FixReplaceAttribute:
		if fix.Payload.Attribute == "" {
			return fmt.Errorf("%s fix has an empty attribute name", fix.Type)
		}
		return insertLineAttribute(lines, loc.Line, fix.Payload.Attribute, fix.Payload.Value)

	case schemas.FixConvertTag:
		if fix.Payload.TagName == "" {
			return fmt.Errorf("convert-tag fix has an empty tag name")
		}
		// Rename the closing tag first: on a one-line element both spans sit
		// on the same line and the closing one is further right.
		if c := loc.Closing; c != nil {
			if err := renameClosingTag(lines, c.Line, c.Column, fix.Payload.TagName); err != nil {
				return err
			}
		}
		if err := renameOpeningTag(lines, loc.Line, loc.Column, fix.Payload.TagName); err != nil {
			return err
		}
		for _, name := range sortedKeys(fix.Payload.Attributes) {
			if err := insertLineAttribute(lines, loc.Line, name, fix.Payload.Attributes[name]); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported fix type %q for Vue templates", fix.Type)
	}
}

// insertLineAttribute inserts ` name="value"` before the first unquoted '>'
// on the target line, which ends the opening tag the location points at. The
// position before a '/>' terminator is preferred. It is a no-op when the
// attribute name already appears verbatim on the line.
func insertLineAttribute(lines []string, lineNo int, name, value string) error {
	if lineNo < 1 || lineNo > len(lines) {
		return fmt.Errorf("line %d outside file bounds", lineNo)
	}
	line := lines[lineNo-1]
	if strings.Contains(line, name) {
		return nil // already present; safe overwrite is not worth a bad guess
	}

	pos := firstUnquotedByte(line, '>')
	if pos < 0 {
		return fmt.Errorf("no tag end found on line %d", lineNo)
	}
	if pos > 0 && line[pos-1] == '/' {
		pos-- // insert before the '/>' terminator
	}

	text := " " + name + `="` + escapeAttr(value) + `"`
	if pos > 0 && (line[pos-1] == ' ' || line[pos-1] == '\t') {
		text = text[1:]
	}
	lines[lineNo-1] = line[:pos] + text + line[pos:]
	return nil
}

func renameOpeningTag(lines []string, lineNo, col int, newTag string) error {
	if lineNo < 1 || lineNo > len(lines) {
		return fmt.Errorf("line %d outside file bounds", lineNo)
	}
	line := lines[lineNo-1]
	if col < 0 || col >= len(line) || line[col] != '<' {
		return fmt.Errorf("column %d on line %d does not point at '<'", col, lineNo)
	}
	start := col + 1
	lines[lineNo-1] = line[:start] + newTag + line[identEnd(line, start):]
	return nil
}

func renameClosingTag(lines []string, lineNo, col int, newTag string) error {
	if lineNo < 1 || lineNo > len(lines) {
		return fmt.Errorf("closing line %d outside file bounds", lineNo)
	}
	line := lines[lineNo-1]
	if col < 0 || col+1 >= len(line) || line[col] != '<' || line[col+1] != '/' {
		return fmt.Errorf("column %d on line %d does not point at '</'", col, lineNo)
	}
	start := col + 2
	lines[lineNo-1] = line[:start] + newTag + line[identEnd(line, start):]
	return nil
}

// firstUnquotedByte returns the index of the first occurrence of b on the
// line that is not inside a single- or double-quoted attribute value.
func firstUnquotedByte(line string, b byte) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == b:
			return i
		}
	}
	return -1
}
