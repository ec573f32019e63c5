package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"turnera/internal/dialog"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type testMessageRequest struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
}

// handleTestMessage simulates one inbound message and returns the reply.
// Processing failures still acknowledge with a reply payload: the transport
// contract is that internal errors never surface as delivery errors.
func (s *Server) handleTestMessage(w http.ResponseWriter, r *http.Request) {
	var req testMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
		respondError(w, http.StatusBadRequest, "phone and text are required")
		return
	}

	reply, err := s.turns.HandleTurn(r.Context(), req.Phone, req.Text)
	if err != nil {
		s.log.Error("test turn failed", zap.Error(err))
		respondJSON(w, http.StatusOK, map[string]string{
			"reply": "Sorry, something went wrong on my side. Please try again.",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) handleTestState(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		respondError(w, http.StatusBadRequest, "phone query parameter is required")
		return
	}

	state, err := s.db.GetState(phone)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read state")
		return
	}
	convCtx, err := s.db.GetContext(phone)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read context")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"phone":   phone,
		"state":   state,
		"context": convCtx,
	})
}

type testResetRequest struct {
	Phone string `json:"phone"`
}

func (s *Server) handleTestReset(w http.ResponseWriter, r *http.Request) {
	var req testResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
		respondError(w, http.StatusBadRequest, "phone is required")
		return
	}

	if err := s.db.UpsertUser(req.Phone); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to reset user")
		return
	}
	if err := s.db.SetState(req.Phone, dialog.StateIdle); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to reset state")
		return
	}
	if err := s.db.SetContext(req.Phone, dialog.Context{}); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to reset context")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "phone": req.Phone})
}
