package validators

import (
	"strings"
	"time"

	pkgerrors "github.com/pushkala9-bommu/tablebook-backend/pkg/errors"
	"github.com/pushkala9-bommu/tablebook-backend/pkg/types"
)

// reservationLayout is the legacy wire format still sent by the booking
// widget: a space-separated date and minute-precision clock, assumed UTC.
const reservationLayout = "2006-01-02 15:04"

// ParseReservationTime accepts either the legacy "YYYY-MM-DD HH:MM" format or
// RFC 3339.
func ParseReservationTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "reservation time is required")
	}
	if parsed, err := time.Parse(reservationLayout, value); err == nil {
		return parsed.UTC(), nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation,
		"reservation time must be formatted as YYYY-MM-DD HH:MM or RFC 3339").
		WithDetails(map[string]any{"value": value})
}

// ParseDateParam parses a YYYY-MM-DD path or query parameter.
func ParseDateParam(value string) (time.Time, error) {
	date, err := types.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation,
			"date must be formatted as YYYY-MM-DD").
			WithDetails(map[string]any{"value": value})
	}
	return date, nil
}
