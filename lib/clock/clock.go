package clock

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func Now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}

// BookingTime combines a booking date and time pair into a single time.Time.
// Both values come from customer input, so parse errors report the
// offending value.
func BookingTime(date, tm string) (time.Time, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("date is not valid: %s", date)
	}
	t, err := time.Parse(timeLayout, tm)
	if err != nil {
		return time.Time{}, fmt.Errorf("time is not valid: %s", tm)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
