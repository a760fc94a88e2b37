package dto

import "time"

// TimeLayout matches the dashboard's ISO-8601 millisecond format.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime renders a timestamp for the wire.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// FormatTimePtr renders a nullable timestamp for the wire.
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}
