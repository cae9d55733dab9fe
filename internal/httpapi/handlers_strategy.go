package httpapi

import (
	"context"
	"net/http"
	"time"

	"strategy-studio/internal/codegen"
	"strategy-studio/internal/domain"
	"strategy-studio/internal/idhash"
	"strategy-studio/internal/observability"
	"strategy-studio/internal/rules"
)

// writeValidationFailure reports field-level rule errors. Validation failures
// are never fatal server errors; the editor shows them inline.
func writeValidationFailure(w http.ResponseWriter, result rules.Result) {
	for _, e := range result.Errors {
		observability.RecordValidationFailure(string(e.Kind))
	}
	writeErrorDetails(w, http.StatusBadRequest, "validation_failed",
		"strategy failed validation", result.Errors)
}

func (s *Server) handleStrategyList(w http.ResponseWriter, r *http.Request) {
	list, err := s.stores.Strategies.List(r.Context(), requestUser(r).UserID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleStrategyCreate(w http.ResponseWriter, r *http.Request) {
	var cfg domain.StrategyConfig
	if err := decodeJSON(w, r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if result := rules.ValidateStrategy(cfg); !result.OK {
		writeValidationFailure(w, result)
		return
	}

	user := requestUser(r)
	now := time.Now().UnixMilli()
	if cfg.ID == "" {
		cfg.ID = idhash.ComputeStrategyID(user.UserID, cfg.Name, now)
	}

	rec := &domain.StrategyRecord{
		StrategyConfig: cfg,
		OwnerID:        user.UserID,
		CreatedAt:      now,
	}

	if !s.lock("strategy:" + rec.ID) {
		writeError(w, http.StatusConflict, "busy", "a mutating call for this strategy is already in flight")
		return
	}
	defer s.unlock("strategy:" + rec.ID)

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	if err := s.stores.Strategies.Insert(ctx, rec); err != nil {
		s.writeStoreError(w, err)
		return
	}

	observability.DefaultMetrics.StrategiesCreated.Inc()
	writeJSON(w, http.StatusCreated, rec)
}

// loadOwnStrategy fetches a strategy and checks the caller owns it. Strategies
// belonging to someone else read as not found unless public.
func (s *Server) loadOwnStrategy(r *http.Request, allowPublic bool) (*domain.StrategyRecord, error) {
	rec, err := s.stores.Strategies.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	if rec.OwnerID != requestUser(r).UserID {
		if allowPublic && rec.IsPublic {
			return rec, nil
		}
		return nil, errNotOwned
	}
	return rec, nil
}

func (s *Server) handleStrategyGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadOwnStrategy(r, true)
	if err != nil {
		s.writeOwnershipError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleStrategyUpdate(w http.ResponseWriter, r *http.Request) {
	var cfg domain.StrategyConfig
	if err := decodeJSON(w, r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if result := rules.ValidateStrategy(cfg); !result.OK {
		writeValidationFailure(w, result)
		return
	}

	id := r.PathValue("id")
	if !s.lock("strategy:" + id) {
		writeError(w, http.StatusConflict, "busy", "a mutating call for this strategy is already in flight")
		return
	}
	defer s.unlock("strategy:" + id)

	rec, err := s.loadOwnStrategy(r, false)
	if err != nil {
		s.writeOwnershipError(w, err)
		return
	}

	cfg.ID = rec.ID // the path id wins over any id in the body
	rec.StrategyConfig = cfg

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	if err := s.stores.Strategies.Update(ctx, rec); err != nil {
		s.writeStoreError(w, err)
		return
	}

	observability.DefaultMetrics.StrategiesUpdated.Inc()
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleStrategyDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.lock("strategy:" + id) {
		writeError(w, http.StatusConflict, "busy", "a mutating call for this strategy is already in flight")
		return
	}
	defer s.unlock("strategy:" + id)

	rec, err := s.loadOwnStrategy(r, false)
	if err != nil {
		s.writeOwnershipError(w, err)
		return
	}

	if err := s.stores.Strategies.Delete(r.Context(), rec.ID); err != nil {
		s.writeStoreError(w, err)
		return
	}

	observability.DefaultMetrics.StrategiesDeleted.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// handleStrategyNormalize coerces form values to canonical shape without
// persisting anything. The editor round-trips drafts through this before
// validation.
func (s *Server) handleStrategyNormalize(w http.ResponseWriter, r *http.Request) {
	var cfg domain.StrategyConfig
	if err := decodeJSON(w, r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rules.NormalizeStrategy(cfg))
}

// handleStrategyValidate runs validation without persisting anything, for the
// editor's live feedback.
func (s *Server) handleStrategyValidate(w http.ResponseWriter, r *http.Request) {
	var cfg domain.StrategyConfig
	if err := decodeJSON(w, r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	result := rules.ValidateStrategy(cfg)
	for _, e := range result.Errors {
		observability.RecordValidationFailure(string(e.Kind))
	}
	writeJSON(w, http.StatusOK, result)
}

type renderResponse struct {
	Format  string `json:"format"`
	Code    string `json:"code"`
	Version int    `json:"version"`
}

func (s *Server) handlePseudocode(w http.ResponseWriter, r *http.Request) {
	s.renderStrategy(w, r, "pseudocode", codegen.GeneratePseudocode)
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	s.renderStrategy(w, r, "script", codegen.GenerateScript)
}

// renderStrategy runs one of the two generators over a stored strategy. A
// generator error on a stored strategy means the record predates a registry
// change, which is a server fault, not a caller fault.
func (s *Server) renderStrategy(w http.ResponseWriter, r *http.Request, format string, generate func(domain.StrategyConfig) (string, error)) {
	rec, err := s.loadOwnStrategy(r, true)
	if err != nil {
		s.writeOwnershipError(w, err)
		return
	}

	start := time.Now()
	code, err := generate(rec.StrategyConfig)
	observability.RecordRender(format, time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Printf("render %s for strategy %s: %v", format, rec.ID, err)
		writeError(w, http.StatusInternalServerError, "render_failed", "cannot render strategy")
		return
	}

	writeJSON(w, http.StatusOK, renderResponse{Format: format, Code: code, Version: rec.Version})
}
