package htmlgen

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatawa12/nico-ranking-tools/video"
)

func TestLoadCSV(t *testing.T) {
	csvData := "rank,ranking key,video id,get at,posted at,view count,video length\n" +
		"1,300,sm1,2020-01-01T00:00:00Z,2019-12-01T00:00:00Z,10,30\n"

	rows, err := LoadCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, uint64(300), rows[0].Key)
	assert.Equal(t, "sm1", rows[0].ContentID)
	assert.Equal(t, uint64(10), rows[0].ViewCounter)
	assert.Equal(t, uint64(30), rows[0].LengthSecs)
}

func TestLoadCSV_HeaderOnly(t *testing.T) {
	rows, err := LoadCSV(strings.NewReader("rank,ranking key,video id,get at,posted at,view count,video length\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLoadSortedBlob(t *testing.T) {
	blob := &video.SortedBlob{
		LastModified: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Records: []video.SortedRecord{
			{Record: video.Record{ContentID: "sm1", ViewCounter: 10, LengthSeconds: 30, StartTime: time.Date(2019, 12, 1, 0, 0, 0, 0, time.UTC)}, Key: 300},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, video.WriteSortedBlob(&buf, blob))

	rows, err := LoadSortedBlob(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "sm1", rows[0].ContentID)
}
