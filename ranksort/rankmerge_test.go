package ranksort

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatawa12/nico-ranking-tools/video"
)

func keyed(id string, key uint64) video.SortedRecord {
	return video.SortedRecord{Record: video.Record{ContentID: id}, Key: key}
}

func sortedBlob(lastModified time.Time, records ...video.SortedRecord) *video.SortedBlob {
	return &video.SortedBlob{LastModified: lastModified, Records: records}
}

func TestMergeRankings_InterleavesByDescendingKey(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	a := sortedBlob(t0, keyed("sm1", 30), keyed("sm2", 10))
	b := sortedBlob(t0, keyed("sm3", 20))

	var buf bytes.Buffer
	require.NoError(t, MergeRankings(&buf, []*video.SortedBlob{a, b}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 3 rows
	assert.Equal(t, []string{"1", "30", "sm1"}, rows[1][:3])
	assert.Equal(t, []string{"2", "20", "sm3"}, rows[2][:3])
	assert.Equal(t, []string{"3", "10", "sm2"}, rows[3][:3])
}

func TestMergeRankings_TieBrokenByLowestBlobIndex(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	a := sortedBlob(t0, keyed("fromA", 10))
	b := sortedBlob(t0, keyed("fromB", 10))

	var buf bytes.Buffer
	require.NoError(t, MergeRankings(&buf, []*video.SortedBlob{a, b}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "fromA", rows[1][2])
	assert.Equal(t, "fromB", rows[2][2])
}

func TestMergeRankings_EmptyBlobsProduceHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MergeRankings(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, csvHeader, rows[0])
}
