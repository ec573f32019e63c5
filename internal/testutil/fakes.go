package testutil

import (
	"context"
	"sync"
	"time"

	"turnera/internal/booking"
	"turnera/internal/dialog"
)

// FakeStore is an in-memory conversation store that also counts writes, so
// tests can assert the unconditional write-back at the end of a turn.
type FakeStore struct {
	mu         sync.Mutex
	states     map[string]dialog.State
	contexts   map[string]dialog.Context
	StateSets  int
	CtxSets    int
	FailReads  bool
	FailWrites bool
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		states:   make(map[string]dialog.State),
		contexts: make(map[string]dialog.Context),
	}
}

func (f *FakeStore) UpsertUser(phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.states[phone]; !ok {
		f.states[phone] = dialog.StateIdle
		f.contexts[phone] = dialog.Context{}
	}
	return nil
}

func (f *FakeStore) GetState(phone string) (dialog.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailReads {
		return dialog.StateIdle, errFake
	}
	if s, ok := f.states[phone]; ok {
		return s, nil
	}
	return dialog.StateIdle, nil
}

func (f *FakeStore) SetState(phone string, s dialog.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWrites {
		return errFake
	}
	f.StateSets++
	f.states[phone] = s
	return nil
}

func (f *FakeStore) GetContext(phone string) (dialog.Context, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailReads {
		return dialog.Context{}, errFake
	}
	return f.contexts[phone], nil
}

func (f *FakeStore) SetContext(phone string, c dialog.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWrites {
		return errFake
	}
	f.CtxSets++
	f.contexts[phone] = c
	return nil
}

// Seed installs a state/context pair directly, bypassing the counters.
func (f *FakeStore) Seed(phone string, s dialog.State, c dialog.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[phone] = s
	f.contexts[phone] = c
}

// State returns the stored state for assertions.
func (f *FakeStore) State(phone string) dialog.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[phone]
}

// Ctx returns the stored context for assertions.
func (f *FakeStore) Ctx(phone string) dialog.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contexts[phone]
}

// FakeAudit collects audit entries in memory.
type FakeAudit struct {
	mu      sync.Mutex
	Entries []AuditEntry
}

type AuditEntry struct {
	Phone     string
	Direction string
	Text      string
}

func (f *FakeAudit) Append(phone, direction, text string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Entries = append(f.Entries, AuditEntry{Phone: phone, Direction: direction, Text: text})
	return nil
}

// FakeScheduler is a deterministic stand-in for the booking scheduler.
type FakeScheduler struct {
	mu        sync.Mutex
	Slot      time.Duration
	Busy      bool
	CheckErr  error
	CommitErr error
	Committed []time.Time
	Checked   []time.Time
}

func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{Slot: 30 * time.Minute}
}

func (f *FakeScheduler) SlotDuration() time.Duration {
	return f.Slot
}

func (f *FakeScheduler) CheckAndSuggest(_ context.Context, start time.Time) (booking.CheckResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Checked = append(f.Checked, start)
	if f.CheckErr != nil {
		return booking.CheckResult{}, f.CheckErr
	}
	if f.Busy {
		return booking.CheckResult{
			Available:    false,
			Alternatives: []time.Time{start.Add(f.Slot), start.Add(2 * f.Slot)},
		}, nil
	}
	return booking.CheckResult{Available: true}, nil
}

func (f *FakeScheduler) Commit(_ context.Context, start time.Time, _ string) (booking.Confirmation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CommitErr != nil {
		return booking.Confirmation{}, f.CommitErr
	}
	f.Committed = append(f.Committed, start)
	return booking.Confirmation{EventID: "evt-1", Link: "https://calendar.example/evt-1"}, nil
}

// FakeAnswerer records prompts and returns a canned reply.
type FakeAnswerer struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Prompts []string
}

func (f *FakeAnswerer) Answer(_ context.Context, prompt string, _ []dialog.Turn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	if f.Reply == "" {
		return "canned answer", nil
	}
	return f.Reply, nil
}

// FakeSender records outbound replies.
type FakeSender struct {
	mu   sync.Mutex
	Sent []SentMessage
}

type SentMessage struct {
	Phone string
	Text  string
}

func (f *FakeSender) SendText(_ context.Context, phone, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, SentMessage{Phone: phone, Text: text})
	return nil
}

func (f *FakeSender) All() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SentMessage{}, f.Sent...)
}

type fakeError string

func (e fakeError) Error() string { return string(e) }

var errFake = fakeError("fake failure")
