package harvest

import "time"

// Window is a half-open time interval [Start, End) to crawl as one unit
// (spec.md section 4.1 "Window iteration").
type Window struct {
	Start, End time.Time
}

// minWindow is the threshold below which a final partial window is
// dropped (spec.md: "A final partial window shorter than 1 minute is
// dropped"). The Design Notes flag this as possibly a fencepost artifact
// in the original rather than intentional; this port keeps the original's
// documented behavior and pins it with TestWindows_DropsSubMinuteTail.
const minWindow = time.Minute

// Windows partitions [since, until) into contiguous, disjoint windows of
// width delta, capped at now (sampled once by the caller, not per window,
// per spec.md). The final partial window is dropped if shorter than
// minWindow.
func Windows(since, until time.Time, delta time.Duration, now time.Time) []Window {
	end := until
	if now.Before(end) {
		end = now
	}
	if !end.After(since) {
		return nil
	}

	var windows []Window
	cur := since
	for cur.Before(end) {
		next := cur.Add(delta)
		if next.After(end) {
			next = end
		}
		if next.Sub(cur) < minWindow {
			break
		}
		windows = append(windows, Window{Start: cur, End: next})
		cur = next
	}
	return windows
}
