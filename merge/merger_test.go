package merge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatawa12/nico-ranking-tools/video"
)

func rec(id string) video.Record { return video.Record{ContentID: id} }

func runMerger(t *testing.T, m *Merger, batches []video.WindowBatch) []*video.AggregatedBlob {
	t.Helper()
	in := make(chan video.WindowBatch, len(batches)+1)
	for _, b := range batches {
		in <- b
	}
	in <- video.SentinelBatch()
	close(in)

	var got []*video.AggregatedBlob
	sink := func(n int, blob *video.AggregatedBlob) error {
		require.Equal(t, len(got), n)
		cp := *blob
		got = append(got, &cp)
		return nil
	}
	require.NoError(t, m.Run(context.Background(), in, sink))
	return got
}

func TestMerger_GroupsContiguousSameVersionBatches(t *testing.T) {
	v1 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	v2 := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	batches := []video.WindowBatch{
		{LastModified: v1, Records: []video.Record{rec("a")}, TotalCount: 1, PagesReceived: 1},
		{LastModified: v1, Records: []video.Record{rec("b")}, TotalCount: 1, PagesReceived: 1},
		{LastModified: v2, Records: []video.Record{rec("c")}, TotalCount: 1, PagesReceived: 1},
	}

	blobs := runMerger(t, &Merger{}, batches)
	require.Len(t, blobs, 2)
	assert.Len(t, blobs[0].Records, 2)
	assert.True(t, blobs[0].LastModified.Equal(v1))
	assert.Len(t, blobs[1].Records, 1)
	assert.True(t, blobs[1].LastModified.Equal(v2))
}

func TestMerger_PerWindowMode(t *testing.T) {
	v := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	batches := []video.WindowBatch{
		{LastModified: v, Records: []video.Record{rec("a")}, TotalCount: 1, PagesReceived: 1},
		{LastModified: v, Records: []video.Record{rec("b")}, TotalCount: 1, PagesReceived: 1},
	}

	blobs := runMerger(t, &Merger{PerWindow: true}, batches)
	require.Len(t, blobs, 2)
	assert.Len(t, blobs[0].Records, 1)
	assert.Len(t, blobs[1].Records, 1)
}

func TestMerger_SkipsTruncatedWindow(t *testing.T) {
	v := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	batches := []video.WindowBatch{
		// total_count implies 3 pages but only 1 was actually received.
		{LastModified: v, Records: []video.Record{rec("a")}, TotalCount: 250, PagesReceived: 1},
		{LastModified: v, Records: []video.Record{rec("b")}, TotalCount: 1, PagesReceived: 1},
	}

	blobs := runMerger(t, &Merger{}, batches)
	require.Len(t, blobs, 1)
	assert.Len(t, blobs[0].Records, 1)
	assert.Equal(t, "b", blobs[0].Records[0].ContentID)
}

func TestMerger_EmptyStreamEmitsNothing(t *testing.T) {
	blobs := runMerger(t, &Merger{}, nil)
	assert.Empty(t, blobs)
}
