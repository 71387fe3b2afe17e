package service

import "time"

// cutoffBefore maps an inactivity window onto the absolute instant before
// which a ticket's last update must fall to be eligible. Days are
// subtracted calendar-correct via AddDate so DST transitions and month
// lengths are handled by the time package, not flat arithmetic.
// cutoffBefore(now, 0, 0) is now itself; eligibility compares with <=.
func cutoffBefore(now time.Time, days, hours int) time.Time {
	return now.AddDate(0, 0, -days).Add(-time.Duration(hours) * time.Hour)
}
