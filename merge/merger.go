// Package merge implements the Window Merger (spec.md section 4.2): it
// consumes the harvester's stream of WindowBatches and groups maximal
// contiguous runs sharing one snapshot version into AggregatedBlobs.
package merge

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/anatawa12/nico-ranking-tools/cmn/nlog"
	"github.com/anatawa12/nico-ranking-tools/video"
)

// Sink persists one numbered blob; cmd/merge-nico-data implements this by
// writing merged/merged_N.bin via video.WriteBlob.
type Sink func(n int, blob *video.AggregatedBlob) error

// Merger groups the harvester's WindowBatch stream into AggregatedBlobs.
type Merger struct {
	// PerWindow, when set, emits every WindowBatch as its own blob
	// regardless of version continuity (spec.md section 4.2 "Additional
	// mode").
	PerWindow bool
}

// Run drains in until it sees the sentinel batch (video.SentinelBatch) or
// ctx is cancelled, writing numbered blobs to sink as groups close.
func (m *Merger) Run(ctx context.Context, in <-chan video.WindowBatch, sink Sink) error {
	var (
		current  video.AggregatedBlob
		hasGroup bool
		n        int
	)

	flush := func() error {
		if !hasGroup || len(current.Records) == 0 {
			current = video.AggregatedBlob{}
			hasGroup = false
			return nil
		}
		if err := sink(n, &current); err != nil {
			return errors.Wrapf(err, "writing blob %d", n)
		}
		n++
		current = video.AggregatedBlob{}
		hasGroup = false
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok := <-in:
			if !ok || batch.IsSentinel() {
				return flush()
			}

			if expected := expectedPages(batch.TotalCount); expected > batch.PagesReceived {
				nlog.Warningf("window %s: truncated server-side (expected %d pages, got %d), discarding",
					batch.WindowStart, expected, batch.PagesReceived)
				continue
			}

			if m.PerWindow {
				if err := flush(); err != nil {
					return err
				}
				current = video.AggregatedBlob{LastModified: batch.LastModified, Records: batch.Records}
				hasGroup = true
				if err := flush(); err != nil {
					return err
				}
				continue
			}

			if hasGroup && !batch.LastModified.Equal(current.LastModified) {
				if err := flush(); err != nil {
					return err
				}
			}
			if !hasGroup {
				current.LastModified = batch.LastModified
				hasGroup = true
			}
			current.Records = append(current.Records, batch.Records...)
		}
	}
}

// expectedPages is the skip rule's ceil(total_count / 100) (spec.md
// section 4.2).
func expectedPages(totalCount int) int {
	if totalCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / 100))
}
