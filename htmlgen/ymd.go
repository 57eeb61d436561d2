// Package htmlgen implements the HTML Renderer (spec.md section 4.5):
// pagination of a sorted ranking into fixed-size pages, per-page and
// index HTML, and the two numeral formatters the page templates use.
package htmlgen

import (
	"fmt"
	"time"
)

const (
	secondsPerMinute = 60
	minutesPerHour   = 60
	hoursPerDay      = 24
	daysPerYear      = 364 // a display-only convention; never use for real date arithmetic.
)

// ymdToString formats dur using the 364-day-year, 12-fixed-bucket-month
// convention from original_source/html-gen/src/ymd_print.rs, capped at
// the two most significant nonzero components (spec.md section 4.5): the
// original's Rust unconditionally concatenated every nonzero tier, which
// could print five components at once; this formatter keeps the same
// tier breakdown but stops after two, matching the redesigned behavior
// spec.md asks for.
func ymdToString(dur time.Duration) string {
	totalSeconds := uint64(dur / time.Second)

	years := totalSeconds / (daysPerYear * hoursPerDay * minutesPerHour * secondsPerMinute)
	subyearSeconds := totalSeconds % (daysPerYear * hoursPerDay * minutesPerHour * secondsPerMinute)
	subyearDays := subyearSeconds / (hoursPerDay * minutesPerHour * secondsPerMinute)
	months, days := monthDayOf(subyearDays)

	subdaySeconds := subyearSeconds % (hoursPerDay * minutesPerHour * secondsPerMinute)
	hours := subdaySeconds / (minutesPerHour * secondsPerMinute)
	subhourSeconds := subdaySeconds % (minutesPerHour * secondsPerMinute)
	minutes := subhourSeconds / secondsPerMinute
	seconds := subhourSeconds % secondsPerMinute

	type tier struct {
		nonzero bool
		text    string
	}
	tiers := []tier{
		{years > 0, fmt.Sprintf("%d年", years)},
		{months > 0, fmt.Sprintf("%dヶ月", months)},
		{days > 0, fmt.Sprintf("%d日", days)},
		{hours > 0, fmt.Sprintf("%d時間", hours)},
	}
	if minutes > 0 {
		tiers = append(tiers, tier{true, fmt.Sprintf("%d分%d秒", minutes, seconds)})
	} else if seconds > 0 {
		tiers = append(tiers, tier{true, fmt.Sprintf("%d秒", seconds)})
	}

	result := ""
	count := 0
	for _, t := range tiers {
		if !t.nonzero {
			continue
		}
		result += t.text
		count++
		if count == 2 {
			break
		}
	}
	if result == "" {
		return "0秒"
	}
	return result
}

// monthDayOf maps a day-of-year (0-363) to its fixed-bucket month (0-11)
// and the remaining day within that bucket, using the exact bucket
// boundaries from ymd_print.rs's submonth_days/subyear_months.
func monthDayOf(dayOfYear uint64) (month, day uint64) {
	bounds := [12]uint64{0, 30, 60, 91, 121, 151, 182, 212, 242, 273, 303, 333}
	for i := len(bounds) - 1; i >= 0; i-- {
		if dayOfYear >= bounds[i] {
			return uint64(i), dayOfYear - bounds[i]
		}
	}
	return 0, dayOfYear
}
