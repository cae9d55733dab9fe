// Package marketplace assembles the public strategy catalog. Listings are a
// read model: they join public strategies with the headline metrics from the
// strategy's latest backtest report.
package marketplace

import (
	"context"
	"errors"
	"fmt"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/rules"
	"strategy-studio/internal/storage"
)

// ErrNotOwner is returned when a user tries to publish or unpublish someone
// else's strategy.
var ErrNotOwner = errors.New("strategy belongs to another user")

// ErrNotValid is returned when an invalid strategy is published.
var ErrNotValid = errors.New("strategy does not validate")

// Service builds listings and flips the publish state of strategies.
type Service struct {
	strategies storage.StrategyStore
	reports    storage.BacktestReportStore
}

// NewService creates a marketplace service.
func NewService(strategies storage.StrategyStore, reports storage.BacktestReportStore) *Service {
	return &Service{strategies: strategies, reports: reports}
}

// Listings returns every public strategy as a marketplace card, most
// recently updated first. Strategies without a backtest report list with nil
// performance.
func (s *Service) Listings(ctx context.Context) ([]*domain.MarketplaceListing, error) {
	records, err := s.strategies.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public strategies: %w", err)
	}

	listings := make([]*domain.MarketplaceListing, 0, len(records))
	for _, rec := range records {
		listing, err := s.buildListing(ctx, rec)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// Listing returns one public strategy's card. Returns storage.ErrNotFound
// for unknown or private strategies.
func (s *Service) Listing(ctx context.Context, strategyID string) (*domain.MarketplaceListing, error) {
	rec, err := s.strategies.GetByID(ctx, strategyID)
	if err != nil {
		return nil, err
	}
	if !rec.IsPublic {
		return nil, storage.ErrNotFound
	}
	return s.buildListing(ctx, rec)
}

// Publish marks a strategy public. Only the owner may publish, and only a
// strategy that validates.
func (s *Service) Publish(ctx context.Context, strategyID, userID string) (*domain.StrategyRecord, error) {
	rec, err := s.strategies.GetByID(ctx, strategyID)
	if err != nil {
		return nil, err
	}
	if rec.OwnerID != userID {
		return nil, ErrNotOwner
	}
	if result := rules.ValidateStrategy(rec.StrategyConfig); !result.OK {
		return nil, fmt.Errorf("%w: %d validation errors", ErrNotValid, len(result.Errors))
	}
	if rec.IsPublic {
		return rec, nil
	}

	rec.IsPublic = true
	rec.Status = domain.StatusActive
	if err := s.strategies.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("publish strategy: %w", err)
	}
	return rec, nil
}

// Unpublish removes a strategy from the marketplace. Only the owner may
// unpublish. Unpublishing a private strategy is a no-op.
func (s *Service) Unpublish(ctx context.Context, strategyID, userID string) (*domain.StrategyRecord, error) {
	rec, err := s.strategies.GetByID(ctx, strategyID)
	if err != nil {
		return nil, err
	}
	if rec.OwnerID != userID {
		return nil, ErrNotOwner
	}
	if !rec.IsPublic {
		return rec, nil
	}

	rec.IsPublic = false
	if err := s.strategies.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("unpublish strategy: %w", err)
	}
	return rec, nil
}

func (s *Service) buildListing(ctx context.Context, rec *domain.StrategyRecord) (*domain.MarketplaceListing, error) {
	indicators, err := rules.CollectIndicatorNames(rec.StrategyConfig)
	if err != nil {
		return nil, fmt.Errorf("collect indicators for %s: %w", rec.ID, err)
	}

	listing := &domain.MarketplaceListing{
		StrategyID:  rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		OwnerID:     rec.OwnerID,
		PublishedAt: rec.UpdatedAt,
		Indicators:  indicators,
	}

	report, err := s.reports.GetLatestByStrategyID(ctx, rec.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return listing, nil
		}
		return nil, fmt.Errorf("latest report for %s: %w", rec.ID, err)
	}

	listing.Performance = &domain.ListingPerformance{
		WinRate:        report.WinRate,
		ProfitFactor:   report.ProfitFactor,
		MaxDrawdown:    report.MaxDrawdown,
		TotalReturnPct: report.TotalReturnPct,
		TotalTrades:    report.TotalTrades,
	}
	return listing, nil
}
