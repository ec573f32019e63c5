package dialog

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnrecognizedDateTime means the text matched none of the supported
// date/time shapes. There is deliberately no fallback guess: failures stay
// attributable and the controller re-prompts with the documented examples.
var ErrUnrecognizedDateTime = errors.New("unrecognized date/time expression")

var clockPattern = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?`)

// Layouts tried for absolute expressions, day-first before ISO. The bare
// day/month forms resolve against the current year.
var (
	datetimeLayouts = []string{
		"02/01/2006 15:04",
		"02/01/2006",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	yearlessLayouts = []string{
		"02/01 15:04",
		"02/01",
	}
)

// ParseWhen turns a free-text fragment into a timezone-aware instant.
// Supported shapes: "tomorrow H[:MM]", day-first "DD/MM[/YYYY] [HH:MM]" and
// ISO "YYYY-MM-DD [HH:MM]". Values without an offset get loc attached, never
// converted. Seconds and sub-seconds are always zero.
func ParseWhen(text string, now time.Time, loc *time.Location) (time.Time, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return time.Time{}, ErrUnrecognizedDateTime
	}

	if strings.Contains(t, "tomorrow") {
		m := clockPattern.FindStringSubmatch(t)
		if m == nil {
			return time.Time{}, ErrUnrecognizedDateTime
		}
		hh, _ := strconv.Atoi(m[1])
		mm := 0
		if m[2] != "" {
			mm, _ = strconv.Atoi(m[2])
		}
		if hh > 23 || mm > 59 {
			return time.Time{}, ErrUnrecognizedDateTime
		}
		d := now.In(loc).AddDate(0, 0, 1)
		return time.Date(d.Year(), d.Month(), d.Day(), hh, mm, 0, 0, loc), nil
	}

	for _, layout := range datetimeLayouts {
		if parsed, err := time.ParseInLocation(layout, t, loc); err == nil {
			return parsed.Truncate(time.Minute), nil
		}
	}
	for _, layout := range yearlessLayouts {
		if parsed, err := time.ParseInLocation(layout, t, loc); err == nil {
			return time.Date(
				now.In(loc).Year(), parsed.Month(), parsed.Day(),
				parsed.Hour(), parsed.Minute(), 0, 0, loc,
			), nil
		}
	}

	return time.Time{}, ErrUnrecognizedDateTime
}
