// internal/locate/searcher_test.go
package locate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/quiltline/stitch-cli/api/schemas"
	"github.com/quiltline/stitch-cli/internal/config"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}
	return root
}

func newTestSearcher(t *testing.T) *Searcher {
	t.Helper()
	return NewSearcher(zaptest.NewLogger(t), config.NewDefaultConfig().Search)
}

func TestSearcher_FindAcrossFormats(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"page.html":  "<main>\n  <img src=\"chart.png\">\n</main>\n",
		"Button.tsx": "export const B = () => <button id=\"save\">Save</button>;\n",
		"App.vue":    "<template>\n  <button class=\"cta\">Buy now</button>\n</template>\n",
	})
	searcher := newTestSearcher(t)

	img, err := searcher.Find(&schemas.Signature{
		Tag:        "img",
		Attributes: map[string]string{"src": "chart.png"},
	}, root)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "page.html", img.File)
	assert.Equal(t, 2, img.Line)

	// Two files contain a button; the id pins the TSX one.
	btn, err := searcher.Find(&schemas.Signature{
		Tag:        "button",
		Attributes: map[string]string{"id": "save"},
	}, root)
	require.NoError(t, err)
	require.NotNil(t, btn)
	assert.Equal(t, "Button.tsx", btn.File)

	// Text evidence pins the Vue one.
	cta, err := searcher.Find(&schemas.Signature{Tag: "button", Text: "Buy now"}, root)
	require.NoError(t, err)
	require.NotNil(t, cta)
	assert.Equal(t, "App.vue", cta.File)
	assert.Equal(t, 2, cta.Line)
}

func TestSearcher_NoMatchReturnsNil(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"page.html": "<div>nothing here</div>\n",
	})
	searcher := newTestSearcher(t)

	result, err := searcher.Find(&schemas.Signature{Tag: "video"}, root)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSearcher_ExcludesConfiguredDirs(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"node_modules/pkg/index.html": `<img src="x.png">`,
		"src/page.html":               `<img src="x.png">`,
	})
	searcher := newTestSearcher(t)

	result, err := searcher.Find(&schemas.Signature{
		Tag:        "img",
		Attributes: map[string]string{"src": "x.png"},
	}, root)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, filepath.Join("src", "page.html"), result.File)
}

func TestSearcher_DeterministicTieBreak(t *testing.T) {
	t.Parallel()
	// Identical candidates in two files; the shorter path must win, and within
	// one file the earlier line.
	root := writeTree(t, map[string]string{
		"a.html":     "<p>dup</p>\n<p>dup</p>\n",
		"deep/b.html": "<p>dup</p>\n",
	})
	searcher := newTestSearcher(t)

	result, err := searcher.Find(&schemas.Signature{Tag: "p", Text: "dup"}, root)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "a.html", result.File)
	assert.Equal(t, 1, result.Line)
}

func TestSearcher_SkipsUnparseableFilesAndContinues(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"broken.tsx": "const = = = ;;; <<<\n",
		"page.html":  `<span id="here">x</span>`,
	})
	searcher := newTestSearcher(t)

	result, err := searcher.Find(&schemas.Signature{
		Tag:        "span",
		Attributes: map[string]string{"id": "here"},
	}, root)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "page.html", result.File)
}

func TestSearcher_FindBySelector(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"page.html": "<div class=\"wrap\">\n  <img src=\"a.png\" class=\"hero\">\n</div>\n",
	})
	searcher := newTestSearcher(t)

	result, err := searcher.FindBySelector("img.hero", root)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "page.html", result.File)
	assert.Equal(t, 2, result.Line)
	assert.Equal(t, "img", result.Node.Tag)
}

func TestSearcher_FindByXPath(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{
		"page.html": "<div class=\"wrap\">\n  <img src=\"a.png\" class=\"hero\">\n</div>\n",
	})
	searcher := newTestSearcher(t)

	result, err := searcher.FindByXPath(`//img[@class="hero"]`, root)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "page.html", result.File)
	assert.Equal(t, 2, result.Line)

	missing, err := searcher.FindByXPath(`//video`, root)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = searcher.FindByXPath(`//[bad`, root)
	assert.Error(t, err)
}

func TestSearcher_FindBySelector_Invalid(t *testing.T) {
	t.Parallel()
	root := writeTree(t, map[string]string{"page.html": "<div></div>"})
	searcher := newTestSearcher(t)

	_, err := searcher.FindBySelector("div[", root)
	assert.Error(t, err)
}

func TestSearchResult_SourceLocation(t *testing.T) {
	t.Parallel()
	result := &SearchResult{
		File:   "a.vue",
		Line:   4,
		Column: 2,
		Node: CandidateNode{
			ClosingLocation: &schemas.Position{Line: 6, Column: 2},
		},
	}
	loc := result.SourceLocation()
	assert.Equal(t, "a.vue", loc.Source)
	assert.Equal(t, 4, loc.Line)
	require.NotNil(t, loc.Closing)
	assert.Equal(t, 6, loc.Closing.Line)
}
