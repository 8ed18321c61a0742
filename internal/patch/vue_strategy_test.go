// internal/patch/vue_strategy_test.go
package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/quiltline/stitch-cli/api/schemas"
)

func vueFix(fixType schemas.FixType, payload schemas.FixPayload, line, col int) *schemas.Fix {
	fix := &schemas.Fix{Type: fixType, Payload: payload}
	fix.SetLocation(&schemas.SourceLocation{Source: "App.vue", Line: line, Column: col})
	return fix
}

const vueSource = `<template>
  <div class="app">
    <img src="logo.png">
    <span @click="save" :class="cls">Save</span>
  </div>
</template>
`

func TestVueStrategy_AddAttribute(t *testing.T) {
	t.Parallel()
	s := NewVueStrategy(zaptest.NewLogger(t))

	fix := vueFix(schemas.FixAddAttribute, schemas.FixPayload{Attribute: "alt", Value: "Logo"}, 3, 4)

	out, res := s.ApplyFixes(vueSource, []*schemas.Fix{fix})
	assert.Contains(t, out, `<img src="logo.png" alt="Logo">`)
	assert.Equal(t, 1, res.Applied)
}

func TestVueStrategy_AddAttributeSkipsQuotedAngleBrackets(t *testing.T) {
	t.Parallel()
	s := NewVueStrategy(zaptest.NewLogger(t))

	src := "<template>\n  <span :title=\"a > b\">cmp</span>\n</template>\n"
	fix := vueFix(schemas.FixAddAttribute, schemas.FixPayload{Attribute: "role", Value: "note"}, 2, 2)

	out, _ := s.ApplyFixes(src, []*schemas.Fix{fix})
	// The '>' inside the bound expression must not be mistaken for the tag end.
	assert.Contains(t, out, "<span :title=\"a > b\" role=\"note\">cmp</span>")
}

func TestVueStrategy_AddAttributeAlreadyPresentIsNoOp(t *testing.T) {
	t.Parallel()
	s := NewVueStrategy(zaptest.NewLogger(t))

	src := "<template>\n  <img src=\"logo.png\" alt=\"Logo\">\n</template>\n"
	fix := vueFix(schemas.FixAddAttribute, schemas.FixPayload{Attribute: "alt", Value: "Other"}, 2, 2)

	out, res := s.ApplyFixes(src, []*schemas.Fix{fix})
	assert.Equal(t, src, out)
	assert.Equal(t, 1, res.Applied)
}

func TestVueStrategy_SelfClosingInsertion(t *testing.T) {
	t.Parallel()
	s := NewVueStrategy(zaptest.NewLogger(t))

	src := "<template>\n  <BaseIcon name=\"x\" />\n</template>\n"
	fix := vueFix(schemas.FixAddAttribute, schemas.FixPayload{Attribute: "aria-hidden", Value: "true"}, 2, 2)

	out, _ := s.ApplyFixes(src, []*schemas.Fix{fix})
	assert.Contains(t, out, `<BaseIcon name="x" aria-hidden="true" />`)
}

func TestVueStrategy_ConvertTag(t *testing.T) {
	t.Parallel()
	s := NewVueStrategy(zaptest.NewLogger(t))

	src := "<template>\n  <div role=\"button\">Save</div>\n</template>\n"
	fix := vueFix(schemas.FixConvertTag, schemas.FixPayload{TagName: "button"}, 2, 2)
	fix.Location().Closing = &schemas.Position{Line: 2, Column: 25}

	out, res := s.ApplyFixes(src, []*schemas.Fix{fix})
	assert.Contains(t, out, `<button role="button">Save</button>`)
	assert.Equal(t, 1, res.Applied)
}

func TestVueStrategy_ConvertTagMultiLine(t *testing.T) {
	t.Parallel()
	s := NewVueStrategy(zaptest.NewLogger(t))

	src := "<template>\n  <div role=\"list\">\n    <p>x</p>\n  </div>\n</template>\n"
	fix := vueFix(schemas.FixConvertTag, schemas.FixPayload{TagName: "ul"}, 2, 2)
	fix.Location().Closing = &schemas.Position{Line: 4, Column: 2}

	out, _ := s.ApplyFixes(src, []*schemas.Fix{fix})
	assert.Contains(t, out, `<ul role="list">`)
	assert.Contains(t, out, "  </ul>")
}

func TestVueStrategy_DescendingLineOrder(t *testing.T) {
	t.Parallel()
	s := NewVueStrategy(zaptest.NewLogger(t))

	fixes := []*schemas.Fix{
		vueFix(schemas.FixAddAttribute, schemas.FixPayload{Attribute: "alt", Value: "Logo"}, 3, 4),
		vueFix(schemas.FixAddAttribute, schemas.FixPayload{Attribute: "role", Value: "button"}, 4, 4),
	}

	out, res := s.ApplyFixes(vueSource, fixes)
	assert.Equal(t, 2, res.Applied)
	assert.Contains(t, out, `<img src="logo.png" alt="Logo">`)
	assert.Contains(t, out, `role="button"`)
}

func TestVueStrategy_MisalignedRenameIsSkipped(t *testing.T) {
	t.Parallel()
	s := NewVueStrategy(zaptest.NewLogger(t))

	src := "<template>\n  <div>x</div>\n</template>\n"
	// Column points at whitespace, not the '<'; the fix must be refused rather
	// than corrupt the line.
	fix := vueFix(schemas.FixConvertTag, schemas.FixPayload{TagName: "span"}, 2, 0)

	out, res := s.ApplyFixes(src, []*schemas.Fix{fix})
	assert.Equal(t, src, out)
	assert.Equal(t, 1, res.Skipped)
}

func TestVueStrategy_AddElementUnsupported(t *testing.T) {
	t.Parallel()
	s := NewVueStrategy(zaptest.NewLogger(t))

	fix := vueFix(schemas.FixAddElement, schemas.FixPayload{Element: "<span />"}, 3, 4)
	out, res := s.ApplyFixes(vueSource, []*schemas.Fix{fix})
	assert.Equal(t, vueSource, out)
	assert.Equal(t, 1, res.Skipped)
}
