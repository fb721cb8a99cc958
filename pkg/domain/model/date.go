package model

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// DateLayout is the calendar date format used by seed documents, the admin
// form and the access codes.
const DateLayout = "2006-01-02"

// LocalNoon converts a YYYY-MM-DD date to noon of that day in loc. Noon keeps
// the instant inside the same calendar day for every UTC offset a viewer is
// likely to render it in.
func LocalNoon(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, goerr.Wrap(ErrValidation, "invalid date", goerr.V(DateKey, date))
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc), nil
}

// FormatCountdown renders d as zero padded HH:MM:SS. Negative durations
// render as 00:00:00.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
