package htmlgen

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/anatawa12/nico-ranking-tools/video"
)

// LoadCSV reads a ranking.csv produced by ranksort.MergeRankings (spec.md
// section 4.5: "Input. A sorted record list (from CSV or binary)").
func LoadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading ranking csv")
	}
	if len(records) == 0 {
		return nil, nil
	}
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] { // skip header
		rank, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, errors.Wrapf(err, "parsing rank %q", rec[0])
		}
		key, err := strconv.ParseUint(rec[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing ranking key %q", rec[1])
		}
		views, err := strconv.ParseUint(rec[5], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing view count %q", rec[5])
		}
		length, err := strconv.ParseUint(rec[6], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing video length %q", rec[6])
		}
		rows = append(rows, Row{
			Rank:        rank,
			Key:         key,
			ContentID:   rec[2],
			GetAt:       rec[3],
			PostedAt:    rec[4],
			ViewCounter: views,
			LengthSecs:  length,
		})
	}
	return rows, nil
}

// LoadSortedBlob reads a single already-sorted binary blob and assigns
// ranks 1..N in file order, the binary alternative to LoadCSV.
func LoadSortedBlob(r io.Reader) ([]Row, error) {
	blob, err := video.ReadSortedBlob(r)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(blob.Records))
	for i, rec := range blob.Records {
		rows[i] = Row{
			Rank:        i + 1,
			Key:         rec.Key,
			ContentID:   rec.ContentID,
			GetAt:       blob.LastModified.Format(time.RFC3339),
			PostedAt:    rec.StartTime.Format(time.RFC3339),
			ViewCounter: uint64(rec.ViewCounter),
			LengthSecs:  uint64(rec.LengthSeconds),
		}
	}
	return rows, nil
}
