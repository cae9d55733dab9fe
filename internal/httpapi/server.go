// Package httpapi exposes the storefront over HTTP: strategy CRUD, code
// generation, mock backtests with progress streaming, the marketplace, the
// onboarding survey, and the auth stub.
package httpapi

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"strategy-studio/internal/auth"
	"strategy-studio/internal/backtest"
	"strategy-studio/internal/marketplace"
	"strategy-studio/internal/observability"
	"strategy-studio/internal/session"
	"strategy-studio/internal/storage"
)

// maxBodyBytes bounds request bodies. Strategy configs are small; the only
// large payloads are asset uploads, which get their own limit.
const maxBodyBytes = 1 << 20

// maxAssetBytes bounds uploaded asset blobs.
const maxAssetBytes = 8 << 20

// defaultRequestTimeout is the budget for one mutating request, covering
// store round-trips and the mock backtest.
const defaultRequestTimeout = 30 * time.Second

// Stores bundles the persistence interfaces the API needs.
type Stores struct {
	Strategies storage.StrategyStore
	Users      storage.UserStore
	Reports    storage.BacktestReportStore
	Trades     storage.BacktestTradeStore
	Assets     storage.AssetStore
}

// Server is the HTTP API.
type Server struct {
	stores   Stores
	sessions session.Store
	auth     *auth.Authenticator
	engine   *backtest.Engine
	market   *marketplace.Service
	logger   *log.Logger
	timeout  time.Duration
	started  time.Time

	// One in-flight mutating call per entity. The editor disables its save
	// button while a save runs; this enforces the same rule server-side.
	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger overrides the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRequestTimeout overrides the per-request budget.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// NewServer creates the API server.
func NewServer(stores Stores, sessions session.Store, authenticator *auth.Authenticator, engine *backtest.Engine, market *marketplace.Service, opts ...Option) *Server {
	s := &Server{
		stores:   stores,
		sessions: sessions,
		auth:     authenticator,
		engine:   engine,
		market:   market,
		logger:   log.New(os.Stdout, "[httpapi] ", log.LstdFlags|log.Lshortfile),
		timeout:  defaultRequestTimeout,
		started:  time.Now(),
		inflight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the full route table.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.Handle("GET /metrics", observability.Handler())
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/v1/survey/questions", s.handleSurveyQuestions)
	mux.HandleFunc("GET /api/v1/templates", s.handleTemplateList)
	mux.HandleFunc("GET /api/v1/templates/{slug}", s.handleTemplateGet)
	mux.HandleFunc("GET /api/v1/marketplace", s.handleMarketplaceList)
	mux.HandleFunc("GET /api/v1/marketplace/{id}", s.handleMarketplaceGet)
	mux.HandleFunc("GET /assets/{id}", s.handleAssetGet)

	// Authenticated
	mux.HandleFunc("POST /api/v1/auth/logout", s.requireAuth(s.handleLogout))
	mux.HandleFunc("GET /api/v1/session", s.requireAuth(s.handleSessionGet))
	mux.HandleFunc("PUT /api/v1/session/survey", s.requireAuth(s.handleSurveySubmit))
	mux.HandleFunc("GET /api/v1/recommendations", s.requireAuth(s.handleRecommendations))

	mux.HandleFunc("GET /api/v1/strategies", s.requireAuth(s.handleStrategyList))
	mux.HandleFunc("POST /api/v1/strategies", s.requireAuth(s.handleStrategyCreate))
	mux.HandleFunc("GET /api/v1/strategies/{id}", s.requireAuth(s.handleStrategyGet))
	mux.HandleFunc("PUT /api/v1/strategies/{id}", s.requireAuth(s.handleStrategyUpdate))
	mux.HandleFunc("DELETE /api/v1/strategies/{id}", s.requireAuth(s.handleStrategyDelete))
	mux.HandleFunc("POST /api/v1/strategies/normalize", s.requireAuth(s.handleStrategyNormalize))
	mux.HandleFunc("POST /api/v1/strategies/validate", s.requireAuth(s.handleStrategyValidate))

	mux.HandleFunc("GET /api/v1/strategies/{id}/pseudocode", s.requireAuth(s.handlePseudocode))
	mux.HandleFunc("GET /api/v1/strategies/{id}/script", s.requireAuth(s.handleScript))

	mux.HandleFunc("POST /api/v1/strategies/{id}/backtest", s.requireAuth(s.handleBacktestRun))
	mux.HandleFunc("GET /api/v1/strategies/{id}/backtest/stream", s.requireAuth(s.handleBacktestStream))
	mux.HandleFunc("GET /api/v1/strategies/{id}/reports", s.requireAuth(s.handleReportList))
	mux.HandleFunc("GET /api/v1/reports/{id}", s.requireAuth(s.handleReportGet))

	mux.HandleFunc("POST /api/v1/strategies/{id}/publish", s.requireAuth(s.handlePublish))
	mux.HandleFunc("POST /api/v1/strategies/{id}/unpublish", s.requireAuth(s.handleUnpublish))

	mux.HandleFunc("POST /api/v1/assets", s.requireAuth(s.handleAssetUpload))

	return s.withMetrics(mux)
}

// withMetrics wraps the mux with request counting and latency observation.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := r.URL.Path
		if pattern := r.Pattern; pattern != "" {
			route = pattern
		}
		observability.RecordRequest(route, r.Method, strconv.Itoa(sw.status), time.Since(start).Seconds())
	})
}

// statusWriter captures the response status for metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Hijack passes through to the underlying writer so the websocket upgrade
// keeps working behind the metrics wrapper.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// lock marks one entity busy. Returns false if a mutating call is already in
// flight for it.
func (s *Server) lock(key string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *Server) unlock(key string) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	delete(s.inflight, key)
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Details any `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeErrorDetails(w, status, code, message, nil)
}

func writeErrorDetails(w http.ResponseWriter, status int, code, message string, details any) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	body.Details = details
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads one JSON body with a size cap and strict field checking.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty request body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// errNotOwned marks a strategy that exists but belongs to someone else. It
// surfaces as 404 so the API never confirms another user's strategy ids.
var errNotOwned = errors.New("strategy not owned by caller")

// writeOwnershipError maps loadOwnStrategy failures.
func (s *Server) writeOwnershipError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNotOwned) {
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}
	s.writeStoreError(w, err)
}

// writeStoreError maps storage sentinel errors onto HTTP statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, storage.ErrDuplicateKey):
		writeError(w, http.StatusConflict, "duplicate", "resource already exists")
	case errors.Is(err, storage.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid input")
	default:
		s.logger.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status: "running",
		Uptime: time.Since(s.started).String(),
	})
}
