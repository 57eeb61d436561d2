package video

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(id string) Record {
	last := time.Date(2020, 3, 4, 5, 6, 7, 0, time.UTC)
	return Record{
		ContentID:       id,
		Title:           "title " + id,
		Description:     "desc",
		ThumbnailURL:    "https://example.com/thumb.jpg",
		CategoryTags:    "music",
		Genre:           "other",
		ViewCounter:     1234,
		MylistCounter:   56,
		CommentCounter:  78,
		LengthSeconds:   300,
		StartTime:       time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
		LastCommentTime: &last,
		Tags:            []string{"VOCALOID", "UTAU"},
		LastModified:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBlobRoundTrip(t *testing.T) {
	blob := &AggregatedBlob{
		LastModified: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Records:      []Record{sampleRecord("sm1"), sampleRecord("sm2")},
	}
	blob.Records[1].LastCommentTime = nil
	blob.Records[1].Tags = nil

	var buf bytes.Buffer
	require.NoError(t, WriteBlob(&buf, blob))

	got, err := ReadBlob(&buf)
	require.NoError(t, err)

	assert.True(t, got.LastModified.Equal(blob.LastModified))
	require.Len(t, got.Records, 2)
	for i := range blob.Records {
		assertRecordEqual(t, blob.Records[i], got.Records[i])
	}
}

func assertRecordEqual(t *testing.T, want, got Record) {
	t.Helper()
	assert.Equal(t, want.ContentID, got.ContentID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.ViewCounter, got.ViewCounter)
	assert.Equal(t, want.LengthSeconds, got.LengthSeconds)
	assert.True(t, want.StartTime.Equal(got.StartTime))
	assert.True(t, want.LastModified.Equal(got.LastModified))
	assert.Equal(t, want.Tags, got.Tags)
	if want.LastCommentTime == nil {
		assert.Nil(t, got.LastCommentTime)
	} else {
		require.NotNil(t, got.LastCommentTime)
		assert.True(t, want.LastCommentTime.Equal(*got.LastCommentTime))
	}
}

func TestSortedBlobRoundTrip(t *testing.T) {
	blob := &SortedBlob{
		LastModified: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Records: []SortedRecord{
			{Record: sampleRecord("sm1"), Key: 999},
			{Record: sampleRecord("sm2"), Key: 1},
		},
	}
	blob.Records[1].LastCommentTime = nil
	blob.Records[1].Tags = nil

	var buf bytes.Buffer
	require.NoError(t, WriteSortedBlob(&buf, blob))

	got, err := ReadSortedBlob(&buf)
	require.NoError(t, err)

	require.Len(t, got.Records, 2)
	for i := range blob.Records {
		assertRecordEqual(t, blob.Records[i].Record, got.Records[i].Record)
		assert.Equal(t, blob.Records[i].Key, got.Records[i].Key)
	}
}

func TestWindowBatch_Sentinel(t *testing.T) {
	s := SentinelBatch()
	assert.True(t, s.IsSentinel())

	nonEmpty := WindowBatch{LastModified: time.Unix(0, 0).UTC(), Records: []Record{sampleRecord("sm1")}}
	assert.False(t, nonEmpty.IsSentinel())

	notEpoch := WindowBatch{LastModified: time.Now()}
	assert.False(t, notEpoch.IsSentinel())
}
