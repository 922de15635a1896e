// Package session classifies wall-clock time into US equity market sessions.
//
// The check uses the location carried by the supplied time, normally the
// device's local zone. It does not convert to exchange time and does not know
// about exchange holidays.
package session

import "time"

type Status string

const (
	Open   Status = "OPEN"
	Closed Status = "CLOSED"
)

const (
	openMinute  = 9*60 + 30
	closeMinute = 16 * 60
)

// Classify returns Open on weekdays between 09:30 inclusive and 16:00
// exclusive. Weekdays follow time.Weekday, where Sunday is 0 and Saturday is 6.
func Classify(now time.Time) Status {
	day := now.Weekday()
	if day == time.Saturday || day == time.Sunday {
		return Closed
	}

	minutes := now.Hour()*60 + now.Minute()
	if minutes >= openMinute && minutes < closeMinute {
		return Open
	}
	return Closed
}

func (s Status) Subtext() string {
	if s == Open {
		return "Live prices updating"
	}
	return "Showing last close prices"
}
