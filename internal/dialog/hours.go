package dialog

import "time"

// BusinessHours is a pure predicate over instants: Monday through Friday,
// time-of-day in [Open, Close). Open and Close are fractional hours so a
// half-hour boundary like 8.5 works.
type BusinessHours struct {
	Open  float64
	Close float64
}

// DefaultBusinessHours is the 08:00-21:00 weekday window.
var DefaultBusinessHours = BusinessHours{Open: 8.0, Close: 21.0}

// Within reports whether t falls inside business hours. It is evaluated
// identically for requested slots and offered alternatives.
func (b BusinessHours) Within(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	h := float64(t.Hour()) + float64(t.Minute())/60
	return h >= b.Open && h < b.Close
}
