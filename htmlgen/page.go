package htmlgen

// Row is one ranked item, already in descending-key order — as read from
// a ranking.csv or a SortedBlob.
type Row struct {
	Rank        int
	Key         uint64
	ContentID   string
	GetAt       string
	PostedAt    string
	ViewCounter uint64
	LengthSecs  uint64
}

// perPage is the fixed page size spec.md section 4.5 names.
const perPage = 200

// Page describes one output HTML page's slice of the overall row list.
type Page struct {
	Index     int
	FirstRank int
	LastRank  int
	Rows      []Row
	HasNext   bool
}

// Paginate splits rows (already rank-ordered) into perPage-sized Pages.
func Paginate(rows []Row) []Page {
	if len(rows) == 0 {
		return nil
	}
	var pages []Page
	for start := 0; start < len(rows); start += perPage {
		end := start + perPage
		if end > len(rows) {
			end = len(rows)
		}
		idx := start / perPage
		pages = append(pages, Page{
			Index:     idx,
			FirstRank: start + 1,
			LastRank:  end,
			Rows:      rows[start:end],
		})
	}
	for i := range pages {
		pages[i].HasNext = i+1 < len(pages)
	}
	return pages
}

// indexGroupSize is the chunk size for the two-level index (spec.md
// section 4.5: "chunk pages into groups of 10,000").
const indexGroupSize = 10_000

// needsTwoLevelIndex reports whether pageCount exceeds the single-level
// index.html threshold.
func needsTwoLevelIndex(pageCount int) bool {
	return pageCount > indexGroupSize
}
