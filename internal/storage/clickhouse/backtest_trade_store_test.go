package clickhouse

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/storage"
)

func testTrade(tradeID, reportID string, dateMs int64) *domain.BacktestTrade {
	return &domain.BacktestTrade{
		TradeID:    tradeID,
		ReportID:   reportID,
		Date:       dateMs,
		Type:       domain.TradeLong,
		Entry:      decimal.NewFromFloat(100.5),
		Exit:       decimal.NewFromFloat(105.75),
		PnL:        decimal.NewFromFloat(5.25),
		PnLPercent: 5.22,
	}
}

func TestBacktestTradeStore_InsertBulkAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBacktestTradeStore(conn)
	ctx := context.Background()

	trades := []*domain.BacktestTrade{
		testTrade("trade-002", "report-1", 1700000002000),
		testTrade("trade-001", "report-1", 1700000001000),
		testTrade("trade-003", "report-2", 1700000003000),
	}
	require.NoError(t, store.InsertBulk(ctx, trades))

	got, err := store.GetByReportID(ctx, "report-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by date regardless of insert order
	assert.Equal(t, "trade-001", got[0].TradeID)
	assert.Equal(t, "trade-002", got[1].TradeID)
	assert.Equal(t, domain.TradeLong, got[0].Type)
	assert.True(t, got[0].Entry.Equal(decimal.NewFromFloat(100.5)))
	assert.True(t, got[0].PnL.Equal(decimal.NewFromFloat(5.25)))
	assert.InDelta(t, 5.22, got[0].PnLPercent, 1e-9)
}

func TestBacktestTradeStore_InsertBulkEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBacktestTradeStore(conn)
	require.NoError(t, store.InsertBulk(context.Background(), nil))
}

func TestBacktestTradeStore_IntraBatchDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBacktestTradeStore(conn)
	ctx := context.Background()

	trades := []*domain.BacktestTrade{
		testTrade("trade-dup", "report-1", 1700000001000),
		testTrade("trade-dup", "report-1", 1700000002000),
	}
	err := store.InsertBulk(ctx, trades)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Nothing committed
	got, err := store.GetByReportID(ctx, "report-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBacktestTradeStore_ExistingDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBacktestTradeStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.BacktestTrade{
		testTrade("trade-001", "report-1", 1700000001000),
	}))

	err := store.InsertBulk(ctx, []*domain.BacktestTrade{
		testTrade("trade-002", "report-1", 1700000002000),
		testTrade("trade-001", "report-1", 1700000001000),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestBacktestTradeStore_GetByReportIDEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBacktestTradeStore(conn)

	got, err := store.GetByReportID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}
