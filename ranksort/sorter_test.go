package ranksort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatawa12/nico-ranking-tools/video"
)

func withViewCounter(id string, vc uint32, tags ...string) video.Record {
	return video.Record{ContentID: id, ViewCounter: vc, Tags: tags}
}

func TestSort_DescendingByScore(t *testing.T) {
	blob := &video.AggregatedBlob{Records: []video.Record{
		withViewCounter("sm3", 30),
		withViewCounter("sm1", 10),
		withViewCounter("sm2", 20),
	}}

	sorted, err := Sort(WatchCnt, nil, blob)
	require.NoError(t, err)
	require.Len(t, sorted.Records, 3)
	assert.Equal(t, []string{"sm3", "sm2", "sm1"}, ids(sorted.Records))
}

func TestSort_TieBrokenByContentIDAscending(t *testing.T) {
	blob := &video.AggregatedBlob{Records: []video.Record{
		withViewCounter("sm9", 10),
		withViewCounter("sm1", 10),
		withViewCounter("sm5", 10),
	}}

	sorted, err := Sort(WatchCnt, nil, blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"sm1", "sm5", "sm9"}, ids(sorted.Records))
}

func TestSort_AppliesFilter(t *testing.T) {
	blob := &video.AggregatedBlob{Records: []video.Record{
		withViewCounter("sm1", 10, "A"),
		withViewCounter("sm2", 20, "B"),
	}}
	filter, err := Parse([]string{"in_tags", "A"})
	require.NoError(t, err)

	sorted, err := Sort(WatchCnt, filter, blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"sm1"}, ids(sorted.Records))
}

func TestSort_PreservesLastModified(t *testing.T) {
	blob := &video.AggregatedBlob{Records: []video.Record{withViewCounter("sm1", 1)}}
	sorted, err := Sort(WatchCnt, nil, blob)
	require.NoError(t, err)
	assert.True(t, sorted.LastModified.Equal(blob.LastModified))
}

func TestSort_LargeInputExercisesParallelPartitions(t *testing.T) {
	records := make([]video.Record, 5000)
	for i := range records {
		records[i] = withViewCounter(string(rune('a'+i%26))+itoaPad(i), uint32(5000-i))
	}
	blob := &video.AggregatedBlob{Records: records}

	sorted, err := Sort(WatchCnt, nil, blob)
	require.NoError(t, err)
	require.Len(t, sorted.Records, 5000)
	for i := 1; i < len(sorted.Records); i++ {
		assert.True(t, Score(WatchCnt, sorted.Records[i-1].Record) >= Score(WatchCnt, sorted.Records[i].Record))
	}
}

func ids(rs []video.SortedRecord) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ContentID
	}
	return out
}

func itoaPad(n int) string {
	const digits = "0123456789"
	if n == 0 {
		return "0000"
	}
	buf := make([]byte, 0, 4)
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	for len(buf) < 4 {
		buf = append([]byte{'0'}, buf...)
	}
	return string(buf)
}
