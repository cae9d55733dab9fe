package clickhouse

import (
	"context"
	"fmt"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/storage"
)

// BacktestTradeStore implements storage.BacktestTradeStore using ClickHouse.
type BacktestTradeStore struct {
	conn *Conn
}

// NewBacktestTradeStore creates a new BacktestTradeStore.
func NewBacktestTradeStore(conn *Conn) *BacktestTradeStore {
	return &BacktestTradeStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BacktestTradeStore = (*BacktestTradeStore)(nil)

// InsertBulk adds multiple trades. Fails the entire batch on any duplicate
// trade_id.
func (s *BacktestTradeStore) InsertBulk(ctx context.Context, trades []*domain.BacktestTrade) error {
	if len(trades) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{})
	for _, tr := range trades {
		if tr == nil || tr.TradeID == "" || tr.ReportID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[tr.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[tr.TradeID] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, tr := range trades {
		exists, err := s.exists(ctx, tr.TradeID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO backtest_trades (
			trade_id, report_id, date_ms, side, entry, exit, pnl, pnl_percent
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, tr := range trades {
		err = batch.Append(
			tr.TradeID, tr.ReportID, uint64(tr.Date), string(tr.Type),
			tr.Entry, tr.Exit, tr.PnL, tr.PnLPercent,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByReportID retrieves all trades for a report, ordered by date ASC.
func (s *BacktestTradeStore) GetByReportID(ctx context.Context, reportID string) ([]*domain.BacktestTrade, error) {
	query := `
		SELECT trade_id, report_id, date_ms, side, entry, exit, pnl, pnl_percent
		FROM backtest_trades
		WHERE report_id = ?
		ORDER BY date_ms ASC, trade_id ASC
	`

	rows, err := s.conn.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("query by report id: %w", err)
	}
	defer rows.Close()

	return scanBacktestTrades(rows)
}

// exists checks if a trade with the given id exists.
func (s *BacktestTradeStore) exists(ctx context.Context, tradeID string) (bool, error) {
	query := `SELECT count(*) FROM backtest_trades WHERE trade_id = ?`

	var count uint64
	err := s.conn.QueryRow(ctx, query, tradeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanBacktestTrades scans multiple rows.
func scanBacktestTrades(rows chRows) ([]*domain.BacktestTrade, error) {
	var trades []*domain.BacktestTrade

	for rows.Next() {
		var tr domain.BacktestTrade
		var dateMs uint64
		var side string

		err := rows.Scan(
			&tr.TradeID, &tr.ReportID, &dateMs, &side,
			&tr.Entry, &tr.Exit, &tr.PnL, &tr.PnLPercent,
		)
		if err != nil {
			return nil, fmt.Errorf("scan backtest trade row: %w", err)
		}

		tr.Date = int64(dateMs)
		tr.Type = domain.TradeSide(side)
		trades = append(trades, &tr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backtest trade rows: %w", err)
	}

	return trades, nil
}
