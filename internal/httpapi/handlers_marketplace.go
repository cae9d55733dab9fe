package httpapi

import (
	"context"
	"errors"
	"net/http"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/marketplace"
	"strategy-studio/internal/observability"
)

func (s *Server) handleMarketplaceList(w http.ResponseWriter, r *http.Request) {
	listings, err := s.market.Listings(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) handleMarketplaceGet(w http.ResponseWriter, r *http.Request) {
	listing, err := s.market.Listing(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	s.changeVisibility(w, r, "publish", s.market.Publish)
}

func (s *Server) handleUnpublish(w http.ResponseWriter, r *http.Request) {
	s.changeVisibility(w, r, "unpublish", s.market.Unpublish)
}

func (s *Server) changeVisibility(w http.ResponseWriter, r *http.Request, action string, change func(ctx context.Context, strategyID, userID string) (*domain.StrategyRecord, error)) {
	id := r.PathValue("id")
	if !s.lock("strategy:" + id) {
		writeError(w, http.StatusConflict, "busy", "a mutating call for this strategy is already in flight")
		return
	}
	defer s.unlock("strategy:" + id)

	rec, err := change(r.Context(), id, requestUser(r).UserID)
	if err != nil {
		switch {
		case errors.Is(err, marketplace.ErrNotOwner):
			// Same shape as a missing strategy, for the same reason as reads.
			writeError(w, http.StatusNotFound, "not_found", "resource not found")
		case errors.Is(err, marketplace.ErrNotValid):
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		default:
			s.writeStoreError(w, err)
		}
		return
	}

	observability.DefaultMetrics.PublishesTotal.WithLabelValues(action).Inc()
	writeJSON(w, http.StatusOK, rec)
}
