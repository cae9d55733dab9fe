package marketplace

import (
	"context"
	"testing"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/rules"
	"strategy-studio/internal/storage"
	"strategy-studio/internal/storage/memory"
)

func newTestService(t *testing.T) (*Service, *memory.StrategyStore, *memory.BacktestReportStore) {
	t.Helper()
	strategies := memory.NewStrategyStore()
	reports := memory.NewBacktestReportStore()
	return NewService(strategies, reports), strategies, reports
}

func insertStrategy(t *testing.T, store *memory.StrategyStore, id, owner string, public bool) *domain.StrategyRecord {
	t.Helper()
	cfg := rules.DefaultStrategy("Strategy " + id)
	cfg.ID = id
	cfg.IsPublic = public
	rec := &domain.StrategyRecord{StrategyConfig: cfg, OwnerID: owner}
	if err := store.Insert(context.Background(), rec); err != nil {
		t.Fatalf("insert strategy %s: %v", id, err)
	}
	return rec
}

func TestListings_OnlyPublic(t *testing.T) {
	svc, strategies, _ := newTestService(t)
	ctx := context.Background()

	insertStrategy(t, strategies, "strat-public", "user-1", true)
	insertStrategy(t, strategies, "strat-private", "user-1", false)

	listings, err := svc.Listings(ctx)
	if err != nil {
		t.Fatalf("Listings failed: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if listings[0].StrategyID != "strat-public" {
		t.Errorf("listed %s, want strat-public", listings[0].StrategyID)
	}
	if listings[0].Performance != nil {
		t.Error("expected nil performance without a backtest report")
	}
	if len(listings[0].Indicators) == 0 {
		t.Error("expected indicator names on the listing")
	}
}

func TestListing_IncludesLatestPerformance(t *testing.T) {
	svc, strategies, reports := newTestService(t)
	ctx := context.Background()

	insertStrategy(t, strategies, "strat-1", "user-1", true)

	older := &domain.BacktestReport{
		ReportID: "report-old", StrategyID: "strat-1",
		Symbol: "BTC/USDT", Timeframe: "1d",
		WinRate: 0.4, TotalTrades: 10, CreatedAt: 100,
	}
	newer := &domain.BacktestReport{
		ReportID: "report-new", StrategyID: "strat-1",
		Symbol: "BTC/USDT", Timeframe: "1d",
		WinRate: 0.7, TotalTrades: 12, CreatedAt: 200,
	}
	if err := reports.Insert(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := reports.Insert(ctx, newer); err != nil {
		t.Fatal(err)
	}

	listing, err := svc.Listing(ctx, "strat-1")
	if err != nil {
		t.Fatalf("Listing failed: %v", err)
	}
	if listing.Performance == nil {
		t.Fatal("expected performance block")
	}
	if listing.Performance.WinRate != 0.7 {
		t.Errorf("WinRate = %v, want latest report's 0.7", listing.Performance.WinRate)
	}
}

func TestListing_PrivateIsNotFound(t *testing.T) {
	svc, strategies, _ := newTestService(t)
	ctx := context.Background()

	insertStrategy(t, strategies, "strat-private", "user-1", false)

	if _, err := svc.Listing(ctx, "strat-private"); err != storage.ErrNotFound {
		t.Errorf("expected ErrNotFound for private strategy, got %v", err)
	}
	if _, err := svc.Listing(ctx, "missing"); err != storage.ErrNotFound {
		t.Errorf("expected ErrNotFound for missing strategy, got %v", err)
	}
}

func TestPublish(t *testing.T) {
	svc, strategies, _ := newTestService(t)
	ctx := context.Background()

	insertStrategy(t, strategies, "strat-1", "user-1", false)

	rec, err := svc.Publish(ctx, "strat-1", "user-1")
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !rec.IsPublic {
		t.Error("expected IsPublic after publish")
	}
	if rec.Status != domain.StatusActive {
		t.Errorf("Status = %s, want active", rec.Status)
	}

	stored, err := strategies.GetByID(ctx, "strat-1")
	if err != nil {
		t.Fatal(err)
	}
	if !stored.IsPublic {
		t.Error("publish was not persisted")
	}
}

func TestPublish_WrongOwner(t *testing.T) {
	svc, strategies, _ := newTestService(t)
	ctx := context.Background()

	insertStrategy(t, strategies, "strat-1", "user-1", false)

	if _, err := svc.Publish(ctx, "strat-1", "user-2"); err != ErrNotOwner {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestPublish_InvalidStrategy(t *testing.T) {
	svc, strategies, _ := newTestService(t)
	ctx := context.Background()

	rec := insertStrategy(t, strategies, "strat-1", "user-1", false)
	rec.RiskManagement = nil
	if err := strategies.Update(ctx, rec); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Publish(ctx, "strat-1", "user-1")
	if err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestUnpublish(t *testing.T) {
	svc, strategies, _ := newTestService(t)
	ctx := context.Background()

	insertStrategy(t, strategies, "strat-1", "user-1", true)

	rec, err := svc.Unpublish(ctx, "strat-1", "user-1")
	if err != nil {
		t.Fatalf("Unpublish failed: %v", err)
	}
	if rec.IsPublic {
		t.Error("expected private after unpublish")
	}

	listings, err := svc.Listings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 0 {
		t.Errorf("expected empty marketplace, got %d listings", len(listings))
	}

	// Unpublishing twice is a no-op
	if _, err := svc.Unpublish(ctx, "strat-1", "user-1"); err != nil {
		t.Errorf("second Unpublish: %v", err)
	}
}
