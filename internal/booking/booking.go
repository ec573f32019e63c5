package booking

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCalendarUnavailable marks resolver/transaction failures caused by the
// calendar backend (transport, auth, malformed data). It is distinct from a
// normal "busy" answer so callers never confuse an outage with a free slot.
var ErrCalendarUnavailable = errors.New("calendar unavailable")

// Calendar is the external calendar collaborator. Both operations may fail
// with a transport/auth error distinct from a normal busy answer.
type Calendar interface {
	IsBusy(ctx context.Context, start, end time.Time) (bool, error)
	CreateEvent(ctx context.Context, input EventInput) (id, link string, err error)
}

// EventInput describes the calendar event for one confirmed booking.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Phone       string
}

// CheckResult is the outcome of an availability check. When the slot is busy,
// Alternatives holds exactly two candidate starts at +1 and +2 slot widths.
// The alternatives are not validated against the calendar here; validity is
// re-checked only when the user picks one.
type CheckResult struct {
	Available    bool
	Alternatives []time.Time
}

// Confirmation identifies a committed calendar event. The engine keeps no
// other reference to it beyond logging.
type Confirmation struct {
	EventID string
	Link    string
}

// Scheduler checks availability and commits bookings against a single
// calendar with a fixed slot duration.
type Scheduler struct {
	cal         Calendar
	slot        time.Duration
	timeout     time.Duration
	summary     string
	description string
}

type SchedulerConfig struct {
	Calendar    Calendar
	SlotMinutes int
	Timeout     time.Duration
	Summary     string
	Description string
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	slot := time.Duration(cfg.SlotMinutes) * time.Minute
	if slot <= 0 {
		slot = 30 * time.Minute
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Scheduler{
		cal:         cfg.Calendar,
		slot:        slot,
		timeout:     timeout,
		summary:     cfg.Summary,
		description: cfg.Description,
	}
}

// SlotDuration returns the configured slot width.
func (s *Scheduler) SlotDuration() time.Duration {
	return s.slot
}

// CheckAndSuggest queries the calendar for conflicts over [start, start+slot).
// A returned error means the calendar could not answer; it must never be
// treated as "available".
func (s *Scheduler) CheckAndSuggest(ctx context.Context, start time.Time) (CheckResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	busy, err := s.cal.IsBusy(ctx, start, start.Add(s.slot))
	if err != nil {
		return CheckResult{}, fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}
	if !busy {
		return CheckResult{Available: true}, nil
	}

	return CheckResult{
		Available:    false,
		Alternatives: []time.Time{start.Add(s.slot), start.Add(2 * s.slot)},
	}, nil
}

// Commit creates exactly one calendar event for [start, start+slot). It must
// be called only after business hours and a fresh availability check passed
// for the same interval. Commit is never retried on ambiguous failure: the
// external service has no idempotency key and a blind retry risks a
// duplicate event.
func (s *Scheduler) Commit(ctx context.Context, start time.Time, phone string) (Confirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id, link, err := s.cal.CreateEvent(ctx, EventInput{
		Summary:     s.summary,
		Description: s.description,
		Start:       start,
		End:         start.Add(s.slot),
		Phone:       phone,
	})
	if err != nil {
		return Confirmation{}, fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
	}
	return Confirmation{EventID: id, Link: link}, nil
}
