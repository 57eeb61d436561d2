package nicoapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterRoundTrip_Equal(t *testing.T) {
	f := Equal(FieldGenre, "music")
	roundTrip(t, f)
}

func TestFilterRoundTrip_Range(t *testing.T) {
	since := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2020, 1, 8, 0, 0, 0, 0, time.UTC)
	f := Range(FieldStartTime, since.Format(time.RFC3339), until.Format(time.RFC3339)).IncludeLowerBound()
	roundTrip(t, f)
	assert.True(t, f.IncludeLower)
	assert.False(t, f.IncludeUpper)
}

func TestFilterRoundTrip_Combinators(t *testing.T) {
	f := And(
		Equal(FieldGenre, "music"),
		Not(Equal(FieldCategoryTags, "VOCALOID")),
		Or(Equal(FieldTags, "VOCALOID"), Equal(FieldTags, "UTAU")),
	)
	roundTrip(t, f)
}

func roundTrip(t *testing.T, f Filter) {
	t.Helper()
	data, err := f.MarshalJSON()
	require.NoError(t, err)

	var back Filter
	require.NoError(t, back.UnmarshalJSON(data))

	data2, err := back.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(data2))
}

func TestSortingWithOrder_String(t *testing.T) {
	assert.Equal(t, "+startTime", Ascending(SortStartTime).String())
	assert.Equal(t, "-startTime", Descending(SortStartTime).String())
}

func TestQueryParams_Encode(t *testing.T) {
	p := NewQueryParams("", Ascending(SortStartTime))
	p.Fields = AllFields()
	require.NoError(t, p.SetLimit(100))
	require.NoError(t, p.SetOffset(300))
	f := Equal(FieldGenre, "music")
	p.Filter = &f

	v, err := p.Encode()
	require.NoError(t, err)
	assert.Equal(t, "+startTime", v.Get("_sort"))
	assert.Equal(t, "100", v.Get("_limit"))
	assert.Equal(t, "300", v.Get("_offset"))
	assert.Contains(t, v.Get("jsonFilter"), `"type":"equal"`)
}

func TestQueryParams_DefaultsOmitted(t *testing.T) {
	p := NewQueryParams("", Ascending(SortStartTime))
	v, err := p.Encode()
	require.NoError(t, err)
	assert.Empty(t, v.Get("_offset"))
	assert.Empty(t, v.Get("_limit"))
}
