// Package ranksort implements the Sorter/Filter and Ranking Merger
// stages (spec.md sections 4.3 and 4.4): scoring, the filter-expression
// language, a parallel sort/filter pass over one AggregatedBlob, and a
// k-way merge of several SortedBlobs into one ranking CSV.
package ranksort

import (
	"fmt"

	"github.com/anatawa12/nico-ranking-tools/video"
)

// Mode selects one of the three scoring functions spec.md section 4.3
// names (original_source/sort-ranking/src/main.rs's `key_generator_of`).
type Mode string

const (
	WatchSum Mode = "watch-sum"
	WatchCnt Mode = "watch-cnt"
	WatchLng Mode = "watch-lng"
)

// ParseMode validates a --ranking-type flag value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case WatchSum, WatchCnt, WatchLng:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid ranking-type %q: must be watch-sum, watch-cnt, or watch-lng", s)
	}
}

// Score computes the ranking key for one record under mode.
func Score(mode Mode, r video.Record) uint64 {
	switch mode {
	case WatchSum:
		return uint64(r.LengthSeconds) * uint64(r.ViewCounter)
	case WatchCnt:
		return uint64(r.ViewCounter)
	case WatchLng:
		return uint64(r.LengthSeconds)
	default:
		panic(fmt.Sprintf("ranksort: unknown mode %q", mode))
	}
}
