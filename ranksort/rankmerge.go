package ranksort

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/anatawa12/nico-ranking-tools/video"
)

// csvHeader is the fixed column set spec.md section 4.4 names.
var csvHeader = []string{"rank", "ranking key", "video id", "get at", "posted at", "view count", "video length"}

// cursor walks one SortedBlob's records in order.
type cursor struct {
	blob *video.SortedBlob
	idx  int
}

func (c *cursor) done() bool             { return c.idx >= len(c.blob.Records) }
func (c *cursor) cur() video.SortedRecord { return c.blob.Records[c.idx] }

// MergeRankings k-way merges blobs — each already sorted descending by
// its own carried Key — into one ranking CSV (spec.md section 4.4). It
// takes no scoring mode: every SortedRecord carries the key it was
// sorted under, so blobs produced under different ranking types could in
// principle be merged side by side, matching the original's
// RankingVideoDataBin storing a precomputed `ranking_counter` rather than
// merge-rankings recomputing it. Ties are broken deterministically by
// blob index then content_id, per the Design Notes' resolution of the
// original's non-deterministic `Iterator::max_by_key` tie-break.
func MergeRankings(w io.Writer, blobs []*video.SortedBlob) error {
	cursors := make([]*cursor, len(blobs))
	for i, b := range blobs {
		cursors[i] = &cursor{blob: b}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	rank := 1
	for {
		best := selectMax(cursors)
		if best == nil {
			break
		}
		rec := best.cur()
		row := []string{
			strconv.Itoa(rank),
			strconv.FormatUint(rec.Key, 10),
			rec.ContentID,
			rec.LastModified.Format("2006-01-02T15:04:05Z07:00"),
			rec.StartTime.Format("2006-01-02T15:04:05Z07:00"),
			strconv.FormatUint(uint64(rec.ViewCounter), 10),
			strconv.FormatUint(uint64(rec.LengthSeconds), 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
		best.idx++
		rank++
	}

	cw.Flush()
	return cw.Error()
}

// selectMax picks the cursor whose current record has the maximum key,
// ties broken by lowest blob index — each cursor belongs to a distinct
// blob, so blob index alone is always a total tie-break here; content_id
// ordering is what the sorter already used to break ties within a blob.
func selectMax(cursors []*cursor) *cursor {
	var best *cursor
	for _, c := range cursors {
		if c.done() {
			continue
		}
		if best == nil || c.cur().Key > best.cur().Key {
			best = c
		}
	}
	return best
}
