package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRecentMessages(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.UpsertUser(testPhone))

	base := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	require.NoError(t, db.Append(testPhone, "in", "hello", base))
	require.NoError(t, db.Append(testPhone, "out", "menu text", base.Add(time.Second)))
	require.NoError(t, db.Append(testPhone, "in", "1", base.Add(2*time.Second)))
	require.NoError(t, db.Append("other-phone", "in", "unrelated", base))

	entries, err := db.RecentMessages(testPhone, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first, scoped to the phone.
	assert.Equal(t, "1", entries[0].Text)
	assert.Equal(t, "in", entries[0].Direction)
	assert.Equal(t, "menu text", entries[1].Text)
	assert.Equal(t, "out", entries[1].Direction)
	for _, e := range entries {
		assert.Equal(t, testPhone, e.Phone)
	}
}

func TestAppendZeroTimestampGetsOne(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.UpsertUser(testPhone))

	require.NoError(t, db.Append(testPhone, "in", "hello", time.Time{}))

	entries, err := db.RecentMessages(testPhone, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestRecordHandoff(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.UpsertUser(testPhone))

	require.NoError(t, db.RecordHandoff(testPhone, "6"))
	require.NoError(t, db.RecordHandoff(testPhone, "please call me"))

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM handoffs WHERE phone = ?`, testPhone).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
