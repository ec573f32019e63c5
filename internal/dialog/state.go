package dialog

import "time"

// State is the per-user conversation state.
type State string

const (
	// StateIdle is the initial and default state.
	StateIdle State = "idle"
	// StateBooking means the user declared intent to book and owes us a date/time.
	StateBooking State = "booking"
	// StateWaitingAlt means exactly two alternative slots were offered and we
	// are waiting for a 1/2 choice or a fresh date/time.
	StateWaitingAlt State = "waiting_alt"
)

// Context is the payload a conversation carries between turns. Only
// StateWaitingAlt carries alternatives; every other transition writes an
// empty context, so stale payloads never leak into the wrong state.
type Context struct {
	Alternatives []time.Time `json:"alternatives,omitempty"`
}

// Empty reports whether the context carries no payload.
func (c Context) Empty() bool {
	return len(c.Alternatives) == 0
}

// Store is the durable conversation-record collaborator. An unknown phone
// must resolve to StateIdle with an empty context.
type Store interface {
	UpsertUser(phone string) error
	GetState(phone string) (State, error)
	SetState(phone string, s State) error
	GetContext(phone string) (Context, error)
	SetContext(phone string, c Context) error
}

// MessageLog is the write-only audit collaborator. Append failures must not
// abort the dialogue turn.
type MessageLog interface {
	Append(phone, direction, text string, ts time.Time) error
}

// HandoffNotifier records a request to talk to a human. Fire-and-forget.
type HandoffNotifier interface {
	NotifyHandoff(phone, text string) error
}
