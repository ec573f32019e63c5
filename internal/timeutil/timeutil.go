package timeutil

import "time"

var defaultLocation = time.UTC

// ResolveLocation returns the location for an IANA timezone name with UTC fallback.
// The second return value reports whether the fallback was used.
func ResolveLocation(timezone string) (*time.Location, bool) {
	if timezone == "" {
		return defaultLocation, true
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return defaultLocation, true
	}
	return loc, false
}

// FormatSlot renders a slot start the way it is shown to users in short form.
func FormatSlot(t time.Time) string {
	return t.Format("02/01 15:04")
}

// FormatDate renders the date part of a confirmed booking.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatClock renders the time-of-day part of a confirmed booking.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}
