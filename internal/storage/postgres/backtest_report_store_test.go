package postgres_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/storage"
	"strategy-studio/internal/storage/postgres"
)

func testReport(id, strategyID string, createdAt int64) *domain.BacktestReport {
	return &domain.BacktestReport{
		ReportID:       id,
		StrategyID:     strategyID,
		Symbol:         "BTC/USDT",
		Timeframe:      "1d",
		StartDate:      1690000000000,
		EndDate:        1700000000000,
		TotalTrades:    2,
		Wins:           1,
		Losses:         1,
		WinRate:        0.5,
		ProfitFactor:   1.4,
		MaxDrawdown:    12.5,
		SharpeRatio:    0.9,
		TotalReturnPct: 8.2,
		Trades: []domain.BacktestTrade{
			{
				TradeID:    id + "-t0",
				ReportID:   id,
				Date:       1690100000000,
				Type:       domain.TradeLong,
				Entry:      decimal.NewFromFloat(100.5),
				Exit:       decimal.NewFromFloat(110.25),
				PnL:        decimal.NewFromFloat(9.75),
				PnLPercent: 9.7,
			},
			{
				TradeID:    id + "-t1",
				ReportID:   id,
				Date:       1690200000000,
				Type:       domain.TradeShort,
				Entry:      decimal.NewFromFloat(110),
				Exit:       decimal.NewFromFloat(112),
				PnL:        decimal.NewFromFloat(-2),
				PnLPercent: -1.8,
			},
		},
		CreatedAt: createdAt,
	}
}

func TestBacktestReportStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewBacktestReportStore(pool)
	ctx := context.Background()

	report := testReport("report-001", "strat-1", 1700000000000)
	require.NoError(t, store.Insert(ctx, report))

	retrieved, err := store.GetByID(ctx, "report-001")
	require.NoError(t, err)

	assert.Equal(t, report.StrategyID, retrieved.StrategyID)
	assert.Equal(t, report.Symbol, retrieved.Symbol)
	assert.Equal(t, report.TotalTrades, retrieved.TotalTrades)
	assert.Equal(t, report.WinRate, retrieved.WinRate)
	require.Len(t, retrieved.Trades, 2)
	assert.True(t, report.Trades[0].Entry.Equal(retrieved.Trades[0].Entry))
	assert.True(t, report.Trades[1].PnL.Equal(retrieved.Trades[1].PnL))
}

func TestBacktestReportStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewBacktestReportStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testReport("report-dup", "strat-1", 1)))

	err := store.Insert(ctx, testReport("report-dup", "strat-1", 2))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestBacktestReportStore_GetByStrategyID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewBacktestReportStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testReport("report-a", "strat-1", 100)))
	require.NoError(t, store.Insert(ctx, testReport("report-b", "strat-1", 200)))
	require.NoError(t, store.Insert(ctx, testReport("report-c", "strat-2", 300)))

	reports, err := store.GetByStrategyID(ctx, "strat-1")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "report-a", reports[0].ReportID)
	assert.Equal(t, "report-b", reports[1].ReportID)
}

func TestBacktestReportStore_GetLatest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewBacktestReportStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testReport("report-old", "strat-1", 100)))
	require.NoError(t, store.Insert(ctx, testReport("report-new", "strat-1", 200)))

	latest, err := store.GetLatestByStrategyID(ctx, "strat-1")
	require.NoError(t, err)
	assert.Equal(t, "report-new", latest.ReportID)

	_, err = store.GetLatestByStrategyID(ctx, "strat-none")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
