// Package reportqueries provides read-only aggregate queries for reports
// and dashboards. Results are point-in-time snapshots.
package reportqueries

import (
	"errors"
	"strings"
	"time"
)

// ErrBadDate is returned for a date that is neither YYYY-MM-DD nor RFC 3339.
var ErrBadDate = errors.New("dates must be YYYY-MM-DD or RFC 3339")

// ErrBadRange is returned when the start is after the end.
var ErrBadRange = errors.New("startDate must not be after endDate")

const dateOnly = "2006-01-02"

// DateRange is an inclusive range on created_at. The zero value matches
// everything.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether no range is set.
func (r DateRange) IsZero() bool { return r.Start.IsZero() && r.End.IsZero() }

// ParseDateRange parses report query parameters. The range applies only
// when both values are present. A date-only end covers the whole day.
func ParseDateRange(start, end string) (DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return DateRange{}, nil
	}
	s, _, err := parseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, dayOnly, err := parseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	if dayOnly {
		e = e.Add(24*time.Hour - time.Millisecond)
	}
	if s.After(e) {
		return DateRange{}, ErrBadRange
	}
	return DateRange{Start: s, End: e}, nil
}

func parseDate(v string) (time.Time, bool, error) {
	if t, err := time.Parse(dateOnly, v); err == nil {
		return t.UTC(), true, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, ErrBadDate
}

// monthKey formats t as the YYYY-MM bucket the aggregations use.
func monthKey(t time.Time) string { return t.UTC().Format("2006-01") }

// lastMonths returns n YYYY-MM keys ending with now's month, oldest first.
func lastMonths(now time.Time, n int) []string {
	first := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = monthKey(first.AddDate(0, -i, 0))
	}
	return out
}
