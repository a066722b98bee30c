package types

import "time"

// DateLayout is the wire format for availability dates.
const DateLayout = "2006-01-02"

// DateOnly truncates a timestamp to its civil date in UTC. Availability
// ledger keys always use this canonical form so that equality and ordering
// behave the same in Go and in SQL.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a canonical date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return DateOnly(t).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string into a canonical date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}
