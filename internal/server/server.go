package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"turnera/internal/database"
)

// TurnHandler runs a complete dialogue turn for one inbound message.
type TurnHandler interface {
	HandleTurn(ctx context.Context, phone, text string) (string, error)
}

// Server exposes the health check and the operator test endpoints. The test
// endpoints exercise the dialogue engine directly, without going through the
// messaging transport.
type Server struct {
	db         *database.DB
	turns      TurnHandler
	testAPIKey string
	httpSrv    *http.Server
	log        *zap.Logger
}

type Config struct {
	DB         *database.DB
	Turns      TurnHandler
	Port       int
	TestAPIKey string
	Logger     *zap.Logger
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		db:         cfg.DB,
		turns:      cfg.Turns,
		testAPIKey: cfg.TestAPIKey,
		log:        logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealthCheck)
	mux.HandleFunc("POST /test/message", s.requireTestKey(s.handleTestMessage))
	mux.HandleFunc("GET /test/state", s.requireTestKey(s.handleTestState))
	mux.HandleFunc("POST /test/reset", s.requireTestKey(s.handleTestReset))

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.httpSrv.Addr))
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// requireTestKey guards the operator endpoints with a constant-time header
// comparison. With no key configured the endpoints are disabled outright.
func (s *Server) requireTestKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.testAPIKey == "" {
			respondError(w, http.StatusForbidden, "test endpoints are not configured")
			return
		}
		got := r.Header.Get("X-Test-API-Key")
		if subtle.ConstantTimeCompare([]byte(s.testAPIKey), []byte(got)) != 1 {
			respondError(w, http.StatusForbidden, "invalid X-Test-API-Key")
			return
		}
		next(w, r)
	}
}
