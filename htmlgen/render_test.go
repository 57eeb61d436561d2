package htmlgen

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPages_WritesOneFilePerPage(t *testing.T) {
	dir := t.TempDir()
	rows := makeRows(250)
	pages := Paginate(rows)

	require.NoError(t, RenderPages(dir, pages))

	for _, p := range pages {
		path := filepath.Join(dir, "ranking-"+strconv.Itoa(p.Index)+".html")
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "nicovideo.jp/watch/")
	}
}

func TestRenderIndex_SingleLevel(t *testing.T) {
	dir := t.TempDir()
	pages := Paginate(makeRows(250))

	require.NoError(t, RenderIndex(dir, pages))

	content, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "ranking-0.html")
	assert.Contains(t, string(content), "ranking-1.html")
}

func TestRenderIndex_TwoLevel(t *testing.T) {
	dir := t.TempDir()
	// Build synthetic pages directly rather than paginating
	// (indexGroupSize+1)*perPage real rows, to keep the test's memory
	// footprint small while still exercising the >10,000-page branch.
	pageCount := indexGroupSize + 1
	pages := make([]Page, pageCount)
	for i := range pages {
		pages[i] = Page{Index: i, FirstRank: i*perPage + 1, LastRank: (i + 1) * perPage, HasNext: i+1 < pageCount}
	}
	require.True(t, needsTwoLevelIndex(len(pages)))

	require.NoError(t, RenderIndex(dir, pages))

	top, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(top), "index-0.html")
	assert.Contains(t, string(top), "index-1.html")

	_, err = os.Stat(filepath.Join(dir, "index-0.html"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "index-1.html"))
	require.NoError(t, err)
}
