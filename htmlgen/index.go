package htmlgen

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
{{if .Range}}<header class="header">
    <div class="center">{{.Range}}</div>
</header>
{{end}}<ul class="container">
{{range .Entries}}    <li class="grid-item"><a href="{{.Href}}">{{.FirstRank}}位~{{.LastRank}}位</a></li>
{{end}}</ul>
</body>
</html>
`))

type indexEntry struct {
	Href      string
	FirstRank int
	LastRank  int
}

type indexView struct {
	Title   string
	Range   string
	Entries []indexEntry
}

// RenderIndex writes index.html (and index-G.html group files, if the
// page count exceeds indexGroupSize) for pages (spec.md section 4.5).
func RenderIndex(outDir string, pages []Page) error {
	if len(pages) == 0 {
		return writeIndexFile(outDir, "index.html", indexView{Title: pageTitle})
	}
	if !needsTwoLevelIndex(len(pages)) {
		return writeIndexFile(outDir, "index.html", rootIndexView(pages, "ranking-"))
	}

	var groups []indexEntry
	for g := 0; g*indexGroupSize < len(pages); g++ {
		start := g * indexGroupSize
		end := start + indexGroupSize
		if end > len(pages) {
			end = len(pages)
		}
		group := pages[start:end]

		name := fmt.Sprintf("index-%d.html", g)
		if err := writeIndexFile(outDir, name, groupIndexView(group, "ranking-")); err != nil {
			return err
		}
		groups = append(groups, indexEntry{
			Href:      name,
			FirstRank: group[0].FirstRank,
			LastRank:  group[len(group)-1].LastRank,
		})
	}

	return writeIndexFile(outDir, "index.html", indexView{Title: pageTitle, Entries: groups})
}

func rootIndexView(pages []Page, linkPrefix string) indexView {
	entries := make([]indexEntry, len(pages))
	for i, p := range pages {
		entries[i] = indexEntry{Href: fmt.Sprintf("%s%d.html", linkPrefix, p.Index), FirstRank: p.FirstRank, LastRank: p.LastRank}
	}
	return indexView{Title: pageTitle, Entries: entries}
}

func groupIndexView(pages []Page, linkPrefix string) indexView {
	v := rootIndexView(pages, linkPrefix)
	v.Range = fmt.Sprintf("%d位~%d位", pages[0].FirstRank, pages[len(pages)-1].LastRank)
	v.Title = fmt.Sprintf("%s(%s)", pageTitle, v.Range)
	return v
}

func writeIndexFile(outDir, name string, view indexView) error {
	f, err := os.Create(filepath.Join(outDir, name))
	if err != nil {
		return errors.Wrapf(err, "creating %s", name)
	}
	defer f.Close()
	return indexTemplate.Execute(f, view)
}
