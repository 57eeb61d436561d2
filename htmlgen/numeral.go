package htmlgen

import (
	"fmt"
	"strconv"
)

// numeralToString renders n the way original_source/html-gen/src/
// numeral_print.rs's `numeral_to_string` does: thousands-grouped below
// 10,000 (num_format's `Locale::ja` uses the same comma grouping as
// `en`), `万`-scaled with one decimal below 100,000,000, and an error
// above that (the original's `unimplemented!("億")`).
func numeralToString(n uint64) (string, error) {
	switch {
	case n < 10_000:
		return groupThousands(n), nil
	case n < 100_000_000:
		tenths := n / 1000
		return fmt.Sprintf("%.1f万", float64(tenths)/10.0), nil
	default:
		return "", fmt.Errorf("numeral_to_string: values >= 100,000,000 (億) are not supported: %d", n)
	}
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	out = append(out, s[:lead]...)
	for i := lead; i < len(s); i += 3 {
		out = append(out, ',')
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
