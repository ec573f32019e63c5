package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalendar struct {
	busy      bool
	busyErr   error
	createErr error

	busyCalls   []timeRange
	createCalls []EventInput
}

type timeRange struct {
	start, end time.Time
}

func (f *fakeCalendar) IsBusy(_ context.Context, start, end time.Time) (bool, error) {
	f.busyCalls = append(f.busyCalls, timeRange{start, end})
	if f.busyErr != nil {
		return false, f.busyErr
	}
	return f.busy, nil
}

func (f *fakeCalendar) CreateEvent(_ context.Context, input EventInput) (string, string, error) {
	f.createCalls = append(f.createCalls, input)
	if f.createErr != nil {
		return "", "", f.createErr
	}
	return "evt-42", "https://calendar.example/evt-42", nil
}

var slotStart = time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

func TestCheckAndSuggestAvailable(t *testing.T) {
	cal := &fakeCalendar{}
	s := NewScheduler(SchedulerConfig{Calendar: cal, SlotMinutes: 30})

	res, err := s.CheckAndSuggest(context.Background(), slotStart)

	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Empty(t, res.Alternatives)

	require.Len(t, cal.busyCalls, 1)
	assert.True(t, slotStart.Equal(cal.busyCalls[0].start))
	assert.True(t, slotStart.Add(30*time.Minute).Equal(cal.busyCalls[0].end))
}

func TestCheckAndSuggestBusyOffersAdjacentSlots(t *testing.T) {
	cal := &fakeCalendar{busy: true}
	s := NewScheduler(SchedulerConfig{Calendar: cal, SlotMinutes: 45})

	res, err := s.CheckAndSuggest(context.Background(), slotStart)

	require.NoError(t, err)
	assert.False(t, res.Available)
	require.Len(t, res.Alternatives, 2)
	assert.True(t, slotStart.Add(45*time.Minute).Equal(res.Alternatives[0]))
	assert.True(t, slotStart.Add(90*time.Minute).Equal(res.Alternatives[1]))
}

func TestCheckAndSuggestErrorIsNeverAvailable(t *testing.T) {
	cal := &fakeCalendar{busyErr: errors.New("freebusy: 503")}
	s := NewScheduler(SchedulerConfig{Calendar: cal, SlotMinutes: 30})

	res, err := s.CheckAndSuggest(context.Background(), slotStart)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCalendarUnavailable)
	assert.False(t, res.Available)
}

func TestCommitCreatesOneEvent(t *testing.T) {
	cal := &fakeCalendar{}
	s := NewScheduler(SchedulerConfig{
		Calendar:    cal,
		SlotMinutes: 30,
		Summary:     "Appointment - Training Office",
		Description: "Booked via assistant",
	})

	conf, err := s.Commit(context.Background(), slotStart, "5491122334455")

	require.NoError(t, err)
	assert.Equal(t, "evt-42", conf.EventID)
	assert.Equal(t, "https://calendar.example/evt-42", conf.Link)

	require.Len(t, cal.createCalls, 1)
	in := cal.createCalls[0]
	assert.Equal(t, "Appointment - Training Office", in.Summary)
	assert.Equal(t, "Booked via assistant", in.Description)
	assert.Equal(t, "5491122334455", in.Phone)
	assert.True(t, slotStart.Equal(in.Start))
	assert.True(t, slotStart.Add(30*time.Minute).Equal(in.End))
}

func TestCommitFailureIsNotRetried(t *testing.T) {
	cal := &fakeCalendar{createErr: errors.New("insert: timeout")}
	s := NewScheduler(SchedulerConfig{Calendar: cal, SlotMinutes: 30})

	_, err := s.Commit(context.Background(), slotStart, "5491122334455")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCalendarUnavailable)
	assert.Len(t, cal.createCalls, 1, "an ambiguous failure must not trigger a second insert")
}

func TestSchedulerDefaults(t *testing.T) {
	s := NewScheduler(SchedulerConfig{Calendar: &fakeCalendar{}})
	assert.Equal(t, 30*time.Minute, s.SlotDuration())
}
