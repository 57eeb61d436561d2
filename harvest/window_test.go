package harvest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario: [since, until) divides evenly by delta — every window is
// exactly delta wide and there is no tail to drop.
func TestWindows_EvenDivision(t *testing.T) {
	since := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.Add(3 * time.Hour)
	ws := Windows(since, until, time.Hour, until)

	require.Len(t, ws, 3)
	for i, w := range ws {
		assert.Equal(t, since.Add(time.Duration(i)*time.Hour), w.Start)
		assert.Equal(t, since.Add(time.Duration(i+1)*time.Hour), w.End)
	}
}

// Scenario: the remainder after the last full window is shorter than
// minWindow — spec.md: "A final partial window shorter than 1 minute is
// dropped." The Design Notes flag this as possibly a fencepost artifact in
// the original Rust, but this port keeps the original's documented
// behavior rather than silently correcting it.
func TestWindows_DropsSubMinuteTail(t *testing.T) {
	since := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.Add(time.Hour).Add(30 * time.Second)
	ws := Windows(since, until, time.Hour, until)

	require.Len(t, ws, 1)
	assert.Equal(t, since, ws[0].Start)
	assert.Equal(t, since.Add(time.Hour), ws[0].End)
}

// Scenario: the remainder is at least minWindow — it is kept as its own
// (narrower) final window rather than dropped.
func TestWindows_KeepsTailAtLeastOneMinute(t *testing.T) {
	since := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.Add(time.Hour).Add(time.Minute)
	ws := Windows(since, until, time.Hour, until)

	require.Len(t, ws, 2)
	assert.Equal(t, since.Add(time.Hour), ws[1].Start)
	assert.Equal(t, until, ws[1].End)
}

// Scenario: windows are contiguous and disjoint — each window's End
// equals the next window's Start, with no overlap and no gap.
func TestWindows_ContiguousAndDisjoint(t *testing.T) {
	since := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.Add(5 * time.Hour)
	ws := Windows(since, until, 90*time.Minute, until)

	require.NotEmpty(t, ws)
	for i := 1; i < len(ws); i++ {
		assert.True(t, ws[i-1].End.Equal(ws[i].Start), "window %d/%d not contiguous", i-1, i)
	}
	assert.True(t, ws[0].Start.Equal(since))
}

// Scenario: until is capped at now, sampled once by the caller — a now
// that falls strictly inside what would otherwise be the final window
// still yields a half-open [Start, now) window, never one extending past
// now.
func TestWindows_CappedAtNow(t *testing.T) {
	since := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.Add(10 * time.Hour)
	now := since.Add(90 * time.Minute)
	ws := Windows(since, until, time.Hour, now)

	require.Len(t, ws, 2)
	assert.True(t, ws[len(ws)-1].End.Equal(now))
	for _, w := range ws {
		assert.False(t, w.End.After(now))
	}
}

// Scenario: since >= until (after capping at now) — no windows at all,
// not a single degenerate zero-width one.
func TestWindows_EmptyRange(t *testing.T) {
	since := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, Windows(since, since, time.Hour, since))
	assert.Nil(t, Windows(since, since.Add(-time.Hour), time.Hour, since))
}
