package dialog

import "strings"

// IntentKind is the result of stateless text classification.
type IntentKind string

const (
	IntentGreeting   IntentKind = "greeting"
	IntentMenuChoice IntentKind = "menu_choice"
	IntentBooking    IntentKind = "booking"
	IntentCancel     IntentKind = "cancel"
	IntentNone       IntentKind = "none"
)

// Intent carries the classification plus the menu digit when relevant.
type Intent struct {
	Kind   IntentKind
	Choice int // 1..6, only for IntentMenuChoice
}

var greetingVocab = map[string]struct{}{
	"hello":          {},
	"hi":             {},
	"hey":            {},
	"menu":           {},
	"start":          {},
	"good morning":   {},
	"good afternoon": {},
	"good evening":   {},
}

var bookingKeywords = []string{
	"appointment",
	"book",
	"schedule",
	"reserve",
	"reservation",
}

// Classify maps raw inbound text to an intent. Precedence: greeting, then a
// single menu digit, then booking keywords, then cancel keywords. Anything
// else is IntentNone and gets routed to the answer provider.
func Classify(text string) Intent {
	t := strings.ToLower(strings.TrimSpace(text))

	if _, ok := greetingVocab[t]; ok {
		return Intent{Kind: IntentGreeting}
	}

	if len(t) == 1 && t[0] >= '1' && t[0] <= '6' {
		return Intent{Kind: IntentMenuChoice, Choice: int(t[0] - '0')}
	}

	// Detection only: cancellation is not automated, the controller replies
	// with the hand-off path instead of guessing at which event to remove.
	// Checked before booking keywords so "cancel my appointment" does not
	// classify as a fresh booking.
	if strings.Contains(t, "cancel") && strings.Contains(t, "appointment") {
		return Intent{Kind: IntentCancel}
	}

	for _, kw := range bookingKeywords {
		if strings.Contains(t, kw) {
			return Intent{Kind: IntentBooking}
		}
	}

	return Intent{Kind: IntentNone}
}
