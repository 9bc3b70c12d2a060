package catalog

import (
	"regexp"
	"strconv"
	"time"
)

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`),
	regexp.MustCompile(`(\d{4})-(\d{2})`),
	regexp.MustCompile(`(\d{4})`),
}

// DateFromFilename finds the first YYYY-MM-DD, YYYY-MM or YYYY in name.
// Missing month and day default to 1. Out-of-range values roll over the
// way time.Date normalizes them.
func DateFromFilename(name string) (time.Time, bool) {
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		parts := [3]int{0, 1, 1}
		for i, s := range m[1:] {
			parts[i], _ = strconv.Atoi(s)
		}
		return time.Date(parts[0], time.Month(parts[1]), parts[2], 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
