package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turnera/internal/database"
	"turnera/internal/dialog"
)

const testKey = "secret-test-key"

type fakeTurns struct {
	reply string
	err   error
	calls []string
}

func (f *fakeTurns) HandleTurn(_ context.Context, phone, text string) (string, error) {
	f.calls = append(f.calls, phone+":"+text)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestServer(t *testing.T, turns TurnHandler, key string) (*Server, *database.DB) {
	t.Helper()
	db := database.NewTestDB(t)
	s := New(Config{DB: db, Turns: turns, Port: 0, TestAPIKey: key})
	return s, db
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	s, _ := newTestServer(t, &fakeTurns{}, testKey)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestTestEndpointsDisabledWithoutKey(t *testing.T) {
	s, _ := newTestServer(t, &fakeTurns{}, "")

	req := httptest.NewRequest(http.MethodGet, "/test/state?phone=123", nil)
	req.Header.Set("X-Test-API-Key", "anything")

	rec := do(s, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTestEndpointsRejectWrongKey(t *testing.T) {
	s, _ := newTestServer(t, &fakeTurns{}, testKey)

	req := httptest.NewRequest(http.MethodGet, "/test/state?phone=123", nil)
	req.Header.Set("X-Test-API-Key", "wrong")

	rec := do(s, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTestMessageRunsTurn(t *testing.T) {
	turns := &fakeTurns{reply: "menu text"}
	s, _ := newTestServer(t, turns, testKey)

	req := httptest.NewRequest(http.MethodPost, "/test/message",
		strings.NewReader(`{"phone":"123","text":"hello"}`))
	req.Header.Set("X-Test-API-Key", testKey)

	rec := do(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "menu text", decode(t, rec)["reply"])
	assert.Equal(t, []string{"123:hello"}, turns.calls)
}

func TestTestMessageTurnErrorStillReplies(t *testing.T) {
	turns := &fakeTurns{err: errors.New("store down")}
	s, _ := newTestServer(t, turns, testKey)

	req := httptest.NewRequest(http.MethodPost, "/test/message",
		strings.NewReader(`{"phone":"123","text":"hello"}`))
	req.Header.Set("X-Test-API-Key", testKey)

	rec := do(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec)["reply"], "something went wrong")
}

func TestTestMessageRequiresPhone(t *testing.T) {
	s, _ := newTestServer(t, &fakeTurns{}, testKey)

	req := httptest.NewRequest(http.MethodPost, "/test/message", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("X-Test-API-Key", testKey)

	rec := do(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTestStateReportsStoredState(t *testing.T) {
	s, db := newTestServer(t, &fakeTurns{}, testKey)
	require.NoError(t, db.UpsertUser("123"))
	require.NoError(t, db.SetState("123", dialog.StateWaitingAlt))
	require.NoError(t, db.SetContext("123", dialog.Context{
		Alternatives: []time.Time{time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC)},
	}))

	req := httptest.NewRequest(http.MethodGet, "/test/state?phone=123", nil)
	req.Header.Set("X-Test-API-Key", testKey)

	rec := do(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "waiting_alt", body["state"])
	assert.Equal(t, "123", body["phone"])
}

func TestTestResetReturnsUserToIdle(t *testing.T) {
	s, db := newTestServer(t, &fakeTurns{}, testKey)
	require.NoError(t, db.UpsertUser("123"))
	require.NoError(t, db.SetState("123", dialog.StateBooking))

	req := httptest.NewRequest(http.MethodPost, "/test/reset", strings.NewReader(`{"phone":"123"}`))
	req.Header.Set("X-Test-API-Key", testKey)

	rec := do(s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	state, err := db.GetState("123")
	require.NoError(t, err)
	assert.Equal(t, dialog.StateIdle, state)
	ctx, err := db.GetContext("123")
	require.NoError(t, err)
	assert.True(t, ctx.Empty())
}
