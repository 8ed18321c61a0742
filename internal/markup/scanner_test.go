// internal/markup/scanner_test.go
package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findByTag(t *testing.T, elements []Element, tag string) *Element {
	t.Helper()
	for i := range elements {
		if elements[i].Tag == tag {
			return &elements[i]
		}
	}
	t.Fatalf("no element with tag %q", tag)
	return nil
}

func TestScanHTML_BasicElement(t *testing.T) {
	t.Parallel()
	src := `<div id="main" class="card wide">Hello World</div>`

	elements, err := ScanHTML(src)
	require.NoError(t, err)
	require.Len(t, elements, 1)

	el := elements[0]
	assert.Equal(t, "div", el.Tag)
	assert.Equal(t, 1, el.Line)
	assert.Equal(t, 0, el.Col)
	assert.Equal(t, 0, el.Start)
	assert.Equal(t, "Hello World", el.Text)
	assert.True(t, el.HasClosing())

	// The opening tag span must cover exactly the raw tag text.
	assert.Equal(t, `<div id="main" class="card wide">`, src[el.Start:el.End])
	assert.Equal(t, `</div>`, src[el.CloseStart:el.CloseEnd])

	id, ok := el.Attr("id")
	require.True(t, ok)
	assert.Equal(t, "main", id.Value)
	assert.True(t, id.HasValue)
	assert.Equal(t, "main", src[id.ValStart:id.ValEnd])
	assert.Equal(t, "id", src[id.NameStart:id.NameEnd])

	class, ok := el.Attr("class")
	require.True(t, ok)
	assert.Equal(t, "card wide", class.Value)
}

func TestScanHTML_NeverSynthesizesDocumentElements(t *testing.T) {
	t.Parallel()
	src := `<p>standalone</p>`

	elements, err := ScanHTML(src)
	require.NoError(t, err)
	require.Len(t, elements, 1)
	assert.Equal(t, "p", elements[0].Tag)
}

func TestScanHTML_VoidAndSelfClosing(t *testing.T) {
	t.Parallel()
	src := "<img src=\"a.png\">\n<br/>\n<input disabled>"

	elements, err := ScanHTML(src)
	require.NoError(t, err)
	require.Len(t, elements, 3)

	img := findByTag(t, elements, "img")
	assert.False(t, img.HasClosing())
	assert.Equal(t, 1, img.Line)

	br := findByTag(t, elements, "br")
	assert.True(t, br.SelfClosing)
	assert.Equal(t, 2, br.Line)

	input := findByTag(t, elements, "input")
	disabled, ok := input.Attr("disabled")
	require.True(t, ok)
	assert.False(t, disabled.HasValue)
	assert.Equal(t, -1, disabled.ValStart)
}

func TestScanHTML_NestedTextGoesToInnermost(t *testing.T) {
	t.Parallel()
	src := `<div>outer <span>inner</span></div>`

	elements, err := ScanHTML(src)
	require.NoError(t, err)
	require.Len(t, elements, 2)

	div := findByTag(t, elements, "div")
	span := findByTag(t, elements, "span")
	assert.Equal(t, "inner", span.Text)
	assert.Equal(t, "outer", div.Text)
	assert.Equal(t, 0, div.Depth)
	assert.Equal(t, 1, span.Depth)
}

func TestScanHTML_PositionsAcrossLines(t *testing.T) {
	t.Parallel()
	src := "<main>\n  <button id=\"save\">Save</button>\n</main>"

	elements, err := ScanHTML(src)
	require.NoError(t, err)

	button := findByTag(t, elements, "button")
	assert.Equal(t, 2, button.Line)
	assert.Equal(t, 2, button.Col)
	assert.Equal(t, 2, button.CloseLine)
	assert.Equal(t, `<button id="save">`, src[button.Start:button.End])
}

func TestScanHTML_UnclosedElementKeepsText(t *testing.T) {
	t.Parallel()
	src := `<div>dangling text`

	elements, err := ScanHTML(src)
	require.NoError(t, err)
	require.Len(t, elements, 1)
	assert.Equal(t, "dangling text", elements[0].Text)
	assert.False(t, elements[0].HasClosing())
}

func TestScanHTML_EntityUnescaping(t *testing.T) {
	t.Parallel()
	src := `<a title="Tom &amp; Jerry">Fish &amp; Chips</a>`

	elements, err := ScanHTML(src)
	require.NoError(t, err)
	require.Len(t, elements, 1)

	assert.Equal(t, "Fish & Chips", elements[0].Text)
	title, ok := elements[0].Attr("title")
	require.True(t, ok)
	assert.Equal(t, "Tom & Jerry", title.Value)
}

func TestScanHTML_VueShorthandAttributes(t *testing.T) {
	t.Parallel()
	src := `<button @click="save" :disabled="busy">Save</button>`

	elements, err := ScanHTML(src)
	require.NoError(t, err)
	require.Len(t, elements, 1)

	click, ok := elements[0].Attr("@click")
	require.True(t, ok)
	assert.Equal(t, "save", click.Value)
	bound, ok := elements[0].Attr(":disabled")
	require.True(t, ok)
	assert.Equal(t, "busy", bound.Value)
}

func TestPositionAt(t *testing.T) {
	t.Parallel()
	src := "ab\ncd\nef"

	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{0, 1, 0},
		{1, 1, 1},
		{3, 2, 0},
		{4, 2, 1},
		{6, 3, 0},
		{8, 3, 2},
	}
	for _, tc := range tests {
		line, col := PositionAt(src, tc.offset)
		assert.Equal(t, tc.wantLine, line, "offset %d", tc.offset)
		assert.Equal(t, tc.wantCol, col, "offset %d", tc.offset)
	}
}
