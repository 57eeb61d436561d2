// Package humandur parses the `--duration` flag's human-readable form
// (spec.md section 6: "`--duration <human>` (default 1 week)"), e.g.
// "1 weeks", "3 days", "12h". Grounded on
// original_source/nico-ranking/src/options.rs's use of the `parse_duration`
// crate, which accepts a number plus a pluralizable unit word.
package humandur

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var pattern = regexp.MustCompile(`^\s*(\d+)\s*([a-zA-Z]+)\s*$`)

var units = map[string]time.Duration{
	"ns":      time.Nanosecond,
	"us":      time.Microsecond,
	"ms":      time.Millisecond,
	"s":       time.Second,
	"sec":     time.Second,
	"secs":    time.Second,
	"second":  time.Second,
	"seconds": time.Second,
	"m":       time.Minute,
	"min":     time.Minute,
	"mins":    time.Minute,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"h":       time.Hour,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"d":       24 * time.Hour,
	"day":     24 * time.Hour,
	"days":    24 * time.Hour,
	"w":       7 * 24 * time.Hour,
	"week":    7 * 24 * time.Hour,
	"weeks":   7 * 24 * time.Hour,
}

// Parse converts a human duration string like "1 weeks" into a
// time.Duration. time.ParseDuration is not used directly since it
// rejects day/week units and the space-separated, pluralized form the
// CLI surface's examples use.
func Parse(s string) (time.Duration, error) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q: expected a number and a unit, e.g. \"1 weeks\"", s)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	unit, ok := units[m[2]]
	if !ok {
		return 0, fmt.Errorf("invalid duration %q: unknown unit %q", s, m[2])
	}
	return time.Duration(n) * unit, nil
}
