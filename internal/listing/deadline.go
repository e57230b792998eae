package listing

import (
	"math"
	"strings"
	"time"

	"github.com/david/opportunity-finder/internal/models"
)

const msPerDay = 86400000

var deadlineLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000Z",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

// IsOpenEnded reports whether the raw deadline is one of the non-date sentinels.
func IsOpenEnded(deadline string) bool {
	return deadline == models.DeadlineRolling || deadline == models.DeadlineOngoing
}

// ParseDeadline parses a raw deadline string. Date-only values are UTC midnight.
func ParseDeadline(deadline string) (time.Time, bool) {
	s := strings.TrimSpace(deadline)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysUntil returns ceil((deadline - now) / 1 day) computed on whole milliseconds.
// The second value is false when the deadline does not parse.
func DaysUntil(deadline string, now time.Time) (int, bool) {
	t, ok := ParseDeadline(deadline)
	if !ok {
		return 0, false
	}
	ms := t.Sub(now).Milliseconds()
	return int(math.Ceil(float64(ms) / msPerDay)), true
}
