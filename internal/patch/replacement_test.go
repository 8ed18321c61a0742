// internal/patch/replacement_test.go
package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply_Ordering(t *testing.T) {
	t.Parallel()
	src := "abcdef"

	// Supplied in ascending order; Apply must still splice correctly because
	// it re-sorts descending by start offset.
	out := Apply(src, []Replacement{
		{Start: 0, End: 1, Text: "A"},
		{Start: 3, End: 4, Text: "D"},
		{Start: 5, End: 6, Text: "F"},
	})
	assert.Equal(t, "AbcDeF", out)
}

func TestApply_Insertions(t *testing.T) {
	t.Parallel()
	out := Apply("ac", []Replacement{
		{Start: 1, End: 1, Text: "b"},
		{Start: 2, End: 2, Text: "d"},
	})
	assert.Equal(t, "abcd", out)
}

func TestApply_DropsOverlaps(t *testing.T) {
	t.Parallel()
	src := "abcdef"

	out := Apply(src, []Replacement{
		{Start: 1, End: 4, Text: "X"}, // overlaps [3,5), which applies first; dropped
		{Start: 3, End: 5, Text: "Y"},
	})
	assert.Equal(t, "abcYf", out)

	// A replacement ending exactly where the previous one started is kept.
	out = Apply(src, []Replacement{
		{Start: 3, End: 5, Text: "Y"},
		{Start: 1, End: 3, Text: "X"},
	})
	assert.Equal(t, "aXYf", out)
}

func TestApply_DropsInvalidRanges(t *testing.T) {
	t.Parallel()
	src := "abc"

	out := Apply(src, []Replacement{
		{Start: -1, End: 1, Text: "X"},
		{Start: 2, End: 1, Text: "X"},
		{Start: 0, End: 99, Text: "X"},
		{Start: 1, End: 2, Text: "B"},
	})
	assert.Equal(t, "aBc", out)
}

func TestApply_Empty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abc", Apply("abc", nil))
}
