package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"strategy-studio/internal/backtest"
	"strategy-studio/internal/domain"
	"strategy-studio/internal/observability"
	"strategy-studio/internal/storage"
)

type backtestRequest struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
	StartDate int64  `json:"startDate"` // Unix ms
	EndDate   int64  `json:"endDate"`
}

func (req backtestRequest) toEngine(strategyID string) backtest.Request {
	return backtest.Request{
		StrategyID: strategyID,
		Symbol:     req.Symbol,
		Timeframe:  req.Timeframe,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
}

func (s *Server) handleBacktestRun(w http.ResponseWriter, r *http.Request) {
	var req backtestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	id := r.PathValue("id")
	if !s.lock("backtest:" + id) {
		writeError(w, http.StatusConflict, "busy", "a backtest for this strategy is already running")
		return
	}
	defer s.unlock("backtest:" + id)

	rec, err := s.loadOwnStrategy(r, true)
	if err != nil {
		s.writeOwnershipError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	report, err := s.runAndStore(ctx, rec, req.toEngine(rec.ID), nil)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
			return
		}
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// runAndStore executes the simulation and persists the report and its trades.
// Report ids are deterministic over (strategy, symbol, timeframe, range), so
// rerunning the same request yields the stored report instead of a duplicate.
func (s *Server) runAndStore(ctx context.Context, rec *domain.StrategyRecord, req backtest.Request, progress backtest.ProgressFunc) (*domain.BacktestReport, error) {
	observability.DefaultMetrics.BacktestsInFlight.Inc()
	defer observability.DefaultMetrics.BacktestsInFlight.Dec()

	start := time.Now()
	report, err := s.engine.Run(ctx, rec, req, progress)
	if err != nil {
		observability.RecordBacktest("error", time.Since(start).Seconds(), 0)
		return nil, err
	}

	if err := s.stores.Reports.Insert(ctx, report); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			observability.RecordBacktest("cached", time.Since(start).Seconds(), 0)
			return s.stores.Reports.GetByID(ctx, report.ReportID)
		}
		return nil, fmt.Errorf("store report: %w", err)
	}

	trades := make([]*domain.BacktestTrade, len(report.Trades))
	for i := range report.Trades {
		trades[i] = &report.Trades[i]
	}
	if err := s.stores.Trades.InsertBulk(ctx, trades); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return nil, fmt.Errorf("store trades: %w", err)
	}

	observability.RecordBacktest("ok", time.Since(start).Seconds(), report.TotalTrades)
	return report, nil
}

func (s *Server) handleReportList(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadOwnStrategy(r, true)
	if err != nil {
		s.writeOwnershipError(w, err)
		return
	}

	reports, err := s.stores.Reports.GetByStrategyID(r.Context(), rec.ID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleReportGet(w http.ResponseWriter, r *http.Request) {
	report, err := s.stores.Reports.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The API is same-origin in production and the token already gates
	// access, so the origin check stays permissive.
	CheckOrigin: func(*http.Request) bool { return true },
}

// streamFrame is one websocket message on the backtest stream.
type streamFrame struct {
	Type    string                 `json:"type"` // "progress", "report", "error"
	Done    int                    `json:"done,omitempty"`
	Total   int                    `json:"total,omitempty"`
	Report  *domain.BacktestReport `json:"report,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// handleBacktestStream runs a backtest over a websocket, pushing one progress
// frame per simulated trade and the full report at the end. The request
// parameters arrive as query values because websocket dials cannot carry a
// body.
func (s *Server) handleBacktestStream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	req, err := streamRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if !s.lock("backtest:" + id) {
		writeError(w, http.StatusConflict, "busy", "a backtest for this strategy is already running")
		return
	}
	defer s.unlock("backtest:" + id)

	rec, err := s.loadOwnStrategy(r, true)
	if err != nil {
		s.writeOwnershipError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.logger.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	progress := func(done, total int) {
		_ = conn.WriteJSON(streamFrame{Type: "progress", Done: done, Total: total})
	}

	report, err := s.runAndStore(ctx, rec, req.toEngine(rec.ID), progress)
	if err != nil {
		_ = conn.WriteJSON(streamFrame{Type: "error", Message: err.Error()})
		return
	}

	_ = conn.WriteJSON(streamFrame{Type: "report", Report: report})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// streamRequest parses the backtest parameters from query values.
func streamRequest(r *http.Request) (backtestRequest, error) {
	q := r.URL.Query()
	req := backtestRequest{
		Symbol:    q.Get("symbol"),
		Timeframe: q.Get("timeframe"),
	}

	var err error
	if req.StartDate, err = strconv.ParseInt(q.Get("startDate"), 10, 64); err != nil {
		return req, fmt.Errorf("invalid startDate: %w", err)
	}
	if req.EndDate, err = strconv.ParseInt(q.Get("endDate"), 10, 64); err != nil {
		return req, fmt.Errorf("invalid endDate: %w", err)
	}
	return req, nil
}
