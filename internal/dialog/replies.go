package dialog

import (
	"fmt"
	"time"
	"unicode/utf8"

	"turnera/internal/timeutil"
)

// MaxReplyLength is the safe upper bound for one outbound message on the
// transport. Longer replies are truncated, consistently, before sending.
const MaxReplyLength = 3800

// Truncate clips a reply to the transport cap. The cut never splits a rune:
// the wire format rejects invalid UTF-8 and the whole send would fail.
func Truncate(s string) string {
	if len(s) <= MaxReplyLength {
		return s
	}
	cut := MaxReplyLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// MenuText is the fixed menu sent on every greeting.
func MenuText(botName string) string {
	return fmt.Sprintf(
		"👋 Hi! I'm %s, the Training Office assistant.\n"+
			"Pick an option:\n"+
			"1) Book an in-person appointment\n"+
			"2) Grant requirements (primary/secondary)\n"+
			"3) Grant requirements (college/university)\n"+
			"4) 2026 courses and discounts\n"+
			"5) Partner agreements\n"+
			"6) Talk to a person\n\n"+
			"Reply with the number.", botName)
}

func promptForDateTime() string {
	return "Great 😊 Tell me *which day and time* you want.\n" +
		"Examples: `tomorrow 10:30`, `01/03 09:00`, `2026-03-01 11:00`."
}

func parseFailureReply() string {
	return "Sorry, I couldn't read that as a date and time.\n" +
		"Examples: `tomorrow 10:30`, `01/03 09:00`, `2026-03-01 11:00`."
}

func outsideHoursReply(hours BusinessHours) string {
	return fmt.Sprintf(
		"⏰ Appointments are available *Monday to Friday, %s to %s*.\n"+
			"Tell me a day and time inside that window (e.g. `tomorrow 10:00`).",
		formatHour(hours.Open), formatHour(hours.Close))
}

func alternativesReply(alts []time.Time) string {
	return fmt.Sprintf(
		"That slot is already taken.\n"+
			"Would one of these work?\n"+
			"1) %s\n"+
			"2) %s\n\n"+
			"Reply with *1* or *2*, or send another date/time.",
		timeutil.FormatSlot(alts[0]), timeutil.FormatSlot(alts[1]))
}

func confirmedReply(start time.Time, slotMinutes int) string {
	return fmt.Sprintf(
		"✅ Appointment confirmed:\n"+
			"📅 %s at %s (%d min)\n"+
			"If you need to cancel, reply: *cancel appointment*.",
		timeutil.FormatDate(start), timeutil.FormatClock(start), slotMinutes)
}

func altOutsideHoursReply() string {
	return "That alternative is outside our business hours. Send me another day/time."
}

func altTakenReply() string {
	return "That alternative was just taken. Send me another day/time."
}

func resolverFailureReply() string {
	return "Sorry, I couldn't reach the calendar right now. Please try again in a few minutes."
}

func commitFailureReply() string {
	return "Sorry, something went wrong while confirming your appointment. Please try again in a few minutes."
}

func answerFailureReply() string {
	return "Sorry, I can't answer that right now. Please try again later."
}

func handoffReply() string {
	return "📌 Done. Leave your question and your name, and a person will contact you as soon as possible."
}

func cancelReply() string {
	return "I can't cancel appointments automatically yet.\n" +
		"Reply *6* and a person will take care of it."
}

func formatHour(h float64) string {
	hh := int(h)
	mm := int((h - float64(hh)) * 60)
	return fmt.Sprintf("%02d:%02d", hh, mm)
}
