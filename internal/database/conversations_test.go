package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turnera/internal/dialog"
)

const testPhone = "5491122334455"

func TestUnknownUserDefaultsToIdle(t *testing.T) {
	db := NewTestDB(t)

	state, err := db.GetState("0000000000")
	require.NoError(t, err)
	assert.Equal(t, dialog.StateIdle, state)

	ctx, err := db.GetContext("0000000000")
	require.NoError(t, err)
	assert.True(t, ctx.Empty())
}

func TestUpsertUserIsIdempotent(t *testing.T) {
	db := NewTestDB(t)

	require.NoError(t, db.UpsertUser(testPhone))
	require.NoError(t, db.SetState(testPhone, dialog.StateBooking))

	// A second upsert must not reset state back to idle.
	require.NoError(t, db.UpsertUser(testPhone))

	state, err := db.GetState(testPhone)
	require.NoError(t, err)
	assert.Equal(t, dialog.StateBooking, state)
}

func TestStateRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.UpsertUser(testPhone))

	for _, s := range []dialog.State{dialog.StateBooking, dialog.StateWaitingAlt, dialog.StateIdle} {
		require.NoError(t, db.SetState(testPhone, s))
		got, err := db.GetState(testPhone)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestContextRoundTripPreservesInstants(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.UpsertUser(testPhone))

	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	alts := []time.Time{
		time.Date(2026, 3, 3, 10, 30, 0, 0, loc),
		time.Date(2026, 3, 3, 11, 0, 0, 0, loc),
	}

	require.NoError(t, db.SetContext(testPhone, dialog.Context{Alternatives: alts}))

	got, err := db.GetContext(testPhone)
	require.NoError(t, err)
	require.Len(t, got.Alternatives, 2)
	assert.True(t, alts[0].Equal(got.Alternatives[0]))
	assert.True(t, alts[1].Equal(got.Alternatives[1]))
}

func TestEmptyContextRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.UpsertUser(testPhone))

	require.NoError(t, db.SetContext(testPhone, dialog.Context{Alternatives: []time.Time{time.Now()}}))
	require.NoError(t, db.SetContext(testPhone, dialog.Context{}))

	got, err := db.GetContext(testPhone)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestMalformedContextResolvesToEmpty(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.UpsertUser(testPhone))

	_, err := db.Exec(`UPDATE conversations SET context_json = ? WHERE phone = ?`, "{not json", testPhone)
	require.NoError(t, err)

	// A corrupted row must not wedge the conversation.
	got, err := db.GetContext(testPhone)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}
