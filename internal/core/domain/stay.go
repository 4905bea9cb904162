package domain

import (
	"fmt"
	"strings"
	"time"
)

// WireDateLayout is the ISO-8601 date-time form the backend expects.
const WireDateLayout = "2006-01-02T15:04:05"

var stayDateLayouts = []string{
	"2006-01-02",
	WireDateLayout,
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseStayDate accepts a plain calendar date or an ISO-8601 date-time.
func ParseStayDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range stayDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// FormatStayDate renders the calendar day of t at midnight in wire format.
func FormatStayDate(t time.Time) string {
	return calendarDay(t).Format(WireDateLayout)
}

const secondsPerDay = 24 * 60 * 60

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NightsBetween counts calendar-day boundaries from checkIn to checkOut.
// Time of day is ignored. Returns 0 when checkOut is on or before checkIn.
func NightsBetween(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0
	}
	// both are UTC midnights, so the difference is a whole number of days
	n := int((calendarDay(checkOut).Unix() - calendarDay(checkIn).Unix()) / secondsPerDay)
	if n < 0 {
		return 0
	}
	return n
}

// Nights is NightsBetween over form values; unparseable input yields 0.
// Callers must read 0 as "not yet a valid range".
func Nights(checkIn, checkOut string) int {
	in, err := ParseStayDate(checkIn)
	if err != nil {
		return 0
	}
	out, err := ParseStayDate(checkOut)
	if err != nil {
		return 0
	}
	return NightsBetween(in, out)
}

// Total is the price of the stay at nightlyRate.
func Total(checkIn, checkOut string, nightlyRate float64) float64 {
	if nightlyRate <= 0 {
		return 0
	}
	return float64(Nights(checkIn, checkOut)) * nightlyRate
}

// ValidateRange is the gate a draft must pass before it can be confirmed.
func ValidateRange(checkIn, checkOut string) error {
	in, err := ParseStayDate(checkIn)
	if err != nil {
		return &ValidationError{Field: "checkInDate", Message: "check-in date is not a valid date", Err: ErrInvalidDateRange}
	}
	out, err := ParseStayDate(checkOut)
	if err != nil {
		return &ValidationError{Field: "checkOutDate", Message: "check-out date is not a valid date", Err: ErrInvalidDateRange}
	}
	if NightsBetween(in, out) == 0 {
		return &ValidationError{Field: "checkOutDate", Message: "check-out date must be after check-in date", Err: ErrInvalidDateRange}
	}
	return nil
}

// NotBefore fails when checkIn falls on a calendar day earlier than today.
func NotBefore(checkIn string, today time.Time) error {
	in, err := ParseStayDate(checkIn)
	if err != nil {
		return &ValidationError{Field: "checkInDate", Message: "check-in date is not a valid date", Err: ErrInvalidDateRange}
	}
	if calendarDay(in).Before(calendarDay(today)) {
		return &ValidationError{Field: "checkInDate", Message: "check-in date cannot be in the past", Err: ErrInvalidDateRange}
	}
	return nil
}
