package dialog

import "time"

// FailKind tags a booking-pipeline failure for logging and for the choice of
// reply. All kinds are recoverable from the user's point of view.
type FailKind string

const (
	FailResolver    FailKind = "resolver"
	FailTransaction FailKind = "transaction"
)

// Outcome is the tagged result of one run through the booking pipeline.
// Exactly one variant comes back; callers switch on the concrete type
// instead of sniffing tuple shapes.
type Outcome interface {
	isOutcome()
	ReplyText() string
}

// Confirmed means an event was committed to the calendar.
type Confirmed struct {
	EventID string
	Reply   string
}

// NeedsInput means the user has to supply (or fix) a date/time; the
// conversation stays in the booking state.
type NeedsInput struct {
	Reply string
}

// OfferedAlternatives means the requested slot was busy and exactly two
// candidates were offered; the conversation moves to waiting_alt with the
// alternatives persisted in context.
type OfferedAlternatives struct {
	Reply        string
	Alternatives []time.Time
}

// Failed means an external collaborator failed; the conversation resets to
// idle so the user is not trapped against a broken backend.
type Failed struct {
	Kind  FailKind
	Reply string
}

func (Confirmed) isOutcome()           {}
func (NeedsInput) isOutcome()          {}
func (OfferedAlternatives) isOutcome() {}
func (Failed) isOutcome()              {}

func (o Confirmed) ReplyText() string           { return o.Reply }
func (o NeedsInput) ReplyText() string          { return o.Reply }
func (o OfferedAlternatives) ReplyText() string { return o.Reply }
func (o Failed) ReplyText() string              { return o.Reply }
