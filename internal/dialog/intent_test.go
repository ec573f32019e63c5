package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{"hello", Intent{Kind: IntentGreeting}},
		{"  Hello  ", Intent{Kind: IntentGreeting}},
		{"MENU", Intent{Kind: IntentGreeting}},
		{"start", Intent{Kind: IntentGreeting}},
		{"good morning", Intent{Kind: IntentGreeting}},

		{"1", Intent{Kind: IntentMenuChoice, Choice: 1}},
		{"3", Intent{Kind: IntentMenuChoice, Choice: 3}},
		{"6", Intent{Kind: IntentMenuChoice, Choice: 6}},
		{"7", Intent{Kind: IntentNone}},
		{"0", Intent{Kind: IntentNone}},
		{"12", Intent{Kind: IntentNone}},

		{"I want to book an appointment", Intent{Kind: IntentBooking}},
		{"can I schedule something?", Intent{Kind: IntentBooking}},
		{"RESERVE a slot please", Intent{Kind: IntentBooking}},

		{"cancel my appointment", Intent{Kind: IntentCancel}},
		{"please cancel the appointment", Intent{Kind: IntentCancel}},
		{"cancel", Intent{Kind: IntentNone}},

		{"what are the grant requirements?", Intent{Kind: IntentNone}},
		{"", Intent{Kind: IntentNone}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

// Greetings must win over everything else in the vocabulary, including text
// that would otherwise be a menu digit or booking keyword.
func TestClassify_GreetingPrecedence(t *testing.T) {
	assert.Equal(t, IntentGreeting, Classify("menu").Kind)
	// A greeting is an exact match; a sentence containing one is not a greeting.
	assert.Equal(t, IntentBooking, Classify("hello, I want an appointment").Kind)
}
