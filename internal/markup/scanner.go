// internal/markup/scanner.go
// Offset-preserving HTML scanning. The x/net/html tokenizer hands back the
// exact raw bytes of every token, which lets us keep absolute byte offsets,
// 1-based lines and 0-based columns for each tag the way a parse-tree API
// never would. Nothing is ever synthesized: an implicit <html>/<head>/<body>
// simply never shows up here.
package markup

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Attr is one attribute of an opening tag, with absolute byte spans into the
// scanned source. ValStart/ValEnd cover the value text only (inside quotes);
// they are -1 for bare attributes like `disabled`.
type Attr struct {
	Name      string
	Value     string
	NameStart int
	NameEnd   int
	ValStart  int
	ValEnd    int
	HasValue  bool
}

// Element is one markup element found in the source. Start/End is the byte
// range of the opening tag; CloseStart/CloseEnd the range of the closing tag,
// -1 when the element is void, self-closing or left unclosed.
type Element struct {
	Tag         string
	Attrs       []Attr
	Start       int
	End         int
	Line        int // 1-based
	Col         int // 0-based
	Depth       int
	SelfClosing bool
	Text        string
	CloseStart  int
	CloseEnd    int
	CloseLine   int
	CloseCol    int
}

// Attr returns the named attribute, matching case-insensitively.
func (e *Element) Attr(name string) (Attr, bool) {
	name = strings.ToLower(name)
	for _, a := range e.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

// HasClosing reports whether a separate closing tag was found.
func (e *Element) HasClosing() bool { return e.CloseStart >= 0 }

// voidElements have no closing tag in HTML; they never go on the open stack.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// ScanHTML tokenizes src and returns one Element per opening tag, in document
// order. The scan is best-effort: a tokenizer error terminates the scan and
// returns whatever was collected so far along with the error.
func ScanHTML(src string) ([]Element, error) {
	z := html.NewTokenizer(strings.NewReader(src))

	var elements []Element
	var stack []int // indexes into elements, innermost last
	var text []*strings.Builder

	offset := 0
	line := 1
	col := 0

	appendText := func(s string) {
		if len(stack) == 0 {
			return
		}
		text[len(stack)-1].WriteString(s)
	}

	closeTop := func(n int) {
		idx := stack[n]
		elements[idx].Text = collapseSpace(text[n].String())
		stack = stack[:n]
		text = text[:n]
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// Flush any still-open elements so their text is not lost.
			for len(stack) > 0 {
				closeTop(len(stack) - 1)
			}
			if err := z.Err(); err != io.EOF {
				return elements, err
			}
			return elements, nil
		}

		raw := string(z.Raw())
		tokenStart, tokenLine, tokenCol := offset, line, col
		offset += len(raw)
		line, col = advance(raw, line, col)

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, attrs := parseTag(raw, tokenStart)
			el := Element{
				Tag:         name,
				Attrs:       attrs,
				Start:       tokenStart,
				End:         tokenStart + len(raw),
				Line:        tokenLine,
				Col:         tokenCol,
				Depth:       len(stack),
				SelfClosing: tt == html.SelfClosingTagToken,
				CloseStart:  -1,
				CloseEnd:    -1,
			}
			elements = append(elements, el)
			if tt == html.StartTagToken && !voidElements[name] {
				stack = append(stack, len(elements)-1)
				text = append(text, &strings.Builder{})
			}

		case html.EndTagToken:
			name, _ := parseTag(raw, tokenStart)
			// Find the innermost open element with this tag; everything above
			// it was implicitly closed.
			for n := len(stack) - 1; n >= 0; n-- {
				if elements[stack[n]].Tag == name {
					idx := stack[n]
					elements[idx].CloseStart = tokenStart
					elements[idx].CloseEnd = tokenStart + len(raw)
					elements[idx].CloseLine = tokenLine
					elements[idx].CloseCol = tokenCol
					for len(stack) > n {
						closeTop(len(stack) - 1)
					}
					break
				}
			}

		case html.TextToken:
			appendText(html.UnescapeString(raw))
		}
	}
}

// PositionAt converts a byte offset into a 1-based line and 0-based column.
func PositionAt(src string, offset int) (int, int) {
	if offset > len(src) {
		offset = len(src)
	}
	l, c := advance(src[:offset], 1, 0)
	return l, c
}

func advance(s string, line, col int) (int, int) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_' || b == ':' || b == '.' || b == '@':
		// '@' and ':' show up in Vue template shorthand attributes.
		return true
	}
	return false
}

// parseTag scans the raw bytes of a single tag token and resolves the tag
// name plus per-attribute byte spans. base is the absolute offset of the
// token's '<' within the scanned source.
func parseTag(raw string, base int) (string, []Attr) {
	i := 1 // past '<'
	if i < len(raw) && raw[i] == '/' {
		i++
	}
	nameStart := i
	for i < len(raw) && isNameByte(raw[i]) {
		i++
	}
	name := strings.ToLower(raw[nameStart:i])

	var attrs []Attr
	for i < len(raw) {
		for i < len(raw) && isSpace(raw[i]) {
			i++
		}
		if i >= len(raw) || raw[i] == '>' || (raw[i] == '/' && i+1 < len(raw) && raw[i+1] == '>') {
			break
		}

		aStart := i
		for i < len(raw) && raw[i] != '=' && raw[i] != '>' && !isSpace(raw[i]) {
			if raw[i] == '/' && i+1 < len(raw) && raw[i+1] == '>' {
				break
			}
			i++
		}
		attr := Attr{
			Name:      strings.ToLower(raw[aStart:i]),
			NameStart: base + aStart,
			NameEnd:   base + i,
			ValStart:  -1,
			ValEnd:    -1,
		}
		if attr.Name == "" {
			i++
			continue
		}

		j := i
		for j < len(raw) && isSpace(raw[j]) {
			j++
		}
		if j < len(raw) && raw[j] == '=' {
			j++
			for j < len(raw) && isSpace(raw[j]) {
				j++
			}
			if j < len(raw) && (raw[j] == '"' || raw[j] == '\'') {
				quote := raw[j]
				j++
				vStart := j
				for j < len(raw) && raw[j] != quote {
					j++
				}
				attr.Value = html.UnescapeString(raw[vStart:j])
				attr.ValStart = base + vStart
				attr.ValEnd = base + j
				attr.HasValue = true
				if j < len(raw) {
					j++ // past closing quote
				}
			} else {
				vStart := j
				for j < len(raw) && !isSpace(raw[j]) && raw[j] != '>' {
					j++
				}
				attr.Value = raw[vStart:j]
				attr.ValStart = base + vStart
				attr.ValEnd = base + j
				attr.HasValue = true
			}
			i = j
		}
		attrs = append(attrs, attr)
	}
	return name, attrs
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
