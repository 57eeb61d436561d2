package htmlgen

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const pageTitle = "人類が動画にかけた時間のランキング"

var pageTemplate = template.Must(template.New("ranking-page").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<header class="header">
{{.PrevLink}}
{{.NextLink}}
    <div class="center">{{.FirstRank}}位〜{{.LastRank}}位</div>
</header>
<ul class="container">
{{range .Rows}}    <li class="grid-item">
        <div class="ranking-header"><a href="https://nicovideo.jp/watch/{{.ContentID}}" class="ranking-header-link">#{{.Rank}}</a></div>
        <div>
            <div>{{.WatchSum}}</div>
            <div>{{.Length}} {{.Views}}回再生</div>
            <iframe class="nico-frame lazy" width="312" height="176" scrolling="no" data-src="https://ext.nicovideo.jp/thumb/{{.ContentID}}"></iframe>
        </div>
    </li>
{{end}}</ul>
<footer class="footer">
{{.PrevLink}}
{{.NextLink}}
    <div class="center">{{.FirstRank}}位〜{{.LastRank}}位</div>
</footer>
</body>
</html>
`))

type pageRow struct {
	Rank      int
	ContentID string
	WatchSum  string
	Length    string
	Views     string
}

type pageView struct {
	Title     string
	FirstRank int
	LastRank  int
	PrevLink  template.HTML
	NextLink  template.HTML
	Rows      []pageRow
}

// RenderPages writes ranking-K.html for every page (spec.md section
// 4.5). Each row's headline stat is the watch-time sum
// (view_counter * length_seconds, the same quantity as the watch-sum
// scoring mode) regardless of which mode the ranking itself was sorted
// by.
func RenderPages(outDir string, pages []Page) error {
	for i, p := range pages {
		if err := renderOnePage(outDir, pages, i, p); err != nil {
			return errors.Wrapf(err, "rendering page %d", i)
		}
	}
	return nil
}

func renderOnePage(outDir string, pages []Page, i int, p Page) error {
	f, err := os.Create(filepath.Join(outDir, fmt.Sprintf("ranking-%d.html", p.Index)))
	if err != nil {
		return err
	}
	defer f.Close()

	rows := make([]pageRow, len(p.Rows))
	for j, r := range p.Rows {
		sum := r.ViewCounter * r.LengthSecs
		rows[j] = pageRow{
			Rank:      r.Rank,
			ContentID: r.ContentID,
			WatchSum:  ymdToString(secondsToDuration(sum)),
			Length:    ymdToString(secondsToDuration(r.LengthSecs)),
			Views:     mustNumeral(r.ViewCounter),
		}
	}

	view := pageView{
		Title:     fmt.Sprintf("%s(%d位〜%d位)", pageTitle, p.FirstRank, p.LastRank),
		FirstRank: p.FirstRank,
		LastRank:  p.LastRank,
		PrevLink:  prevLink(pages, i),
		NextLink:  nextLink(pages, i),
		Rows:      rows,
	}
	return pageTemplate.Execute(f, view)
}

func prevLink(pages []Page, i int) template.HTML {
	if i == 0 {
		return `<a href="index.html" class="left">← prev (ランキングトップ)</a>`
	}
	prev := pages[i-1]
	return template.HTML(fmt.Sprintf(`<a href="ranking-%d.html" class="left">← prev (%d位〜%d位)</a>`,
		prev.Index, prev.FirstRank, prev.LastRank))
}

func nextLink(pages []Page, i int) template.HTML {
	if !pages[i].HasNext {
		return `<a href="index.html" class="right">(ランキングトップ) next →</a>`
	}
	next := pages[i+1]
	return template.HTML(fmt.Sprintf(`<a href="ranking-%d.html" class="right">(%d位〜%d位) next →</a>`,
		next.Index, next.FirstRank, next.LastRank))
}

func secondsToDuration(seconds uint64) time.Duration {
	return time.Duration(seconds) * time.Second
}

func mustNumeral(n uint64) string {
	s, err := numeralToString(n)
	if err != nil {
		return fmt.Sprintf("%d", n)
	}
	return s
}
