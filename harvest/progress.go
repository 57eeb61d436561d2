package harvest

import (
	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"
)

// Progress owns the terminal multi-bar display (spec.md section 7's
// "multi-line progress display"). One Progress is shared by the whole
// harvest; each window gets its own bar via NewWindowBar.
type Progress struct {
	container *mpb.Progress
}

func NewProgress() *Progress {
	return &Progress{container: mpb.New(mpb.WithWidth(48))}
}

// Wait blocks until every bar created on this Progress has been marked
// done; call after the crawl loop finishes.
func (p *Progress) Wait() {
	p.container.Wait()
}

// WindowBar tracks one window's got/total counter (spec.md section 7:
// "per-window progress (got/total)").
type WindowBar struct {
	bar *mpb.Bar
	got uint32
}

func (p *Progress) NewWindowBar(name string) *WindowBar {
	bar := p.container.AddBar(1,
		mpb.PrependDecorators(decor.Name(name)),
		mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")),
	)
	return &WindowBar{bar: bar}
}

// Update advances the bar to got/total, matching whatever the most recent
// search page reported.
func (w *WindowBar) Update(got, total uint32) {
	w.bar.SetTotal(int64(total), false)
	if delta := int(got) - int(w.got); delta > 0 {
		w.bar.IncrBy(delta)
	}
	w.got = got
}

// Done marks the bar complete regardless of its last known total, so a
// window that ended on an empty page (got < total, e.g. server-side
// truncation) doesn't leave a bar stuck mid-progress.
func (w *WindowBar) Done() {
	w.bar.SetTotal(int64(w.got), true)
}
