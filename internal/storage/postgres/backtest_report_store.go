package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/storage"
)

// BacktestReportStore implements storage.BacktestReportStore using
// PostgreSQL. The per-trade rows are stored as a JSONB column alongside the
// aggregate metrics; the ClickHouse trade store holds the analytical copy.
type BacktestReportStore struct {
	pool *Pool
}

// NewBacktestReportStore creates a new BacktestReportStore.
func NewBacktestReportStore(pool *Pool) *BacktestReportStore {
	return &BacktestReportStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BacktestReportStore = (*BacktestReportStore)(nil)

const reportColumns = `
	report_id, strategy_id, symbol, timeframe, start_date, end_date,
	total_trades, wins, losses, win_rate, profit_factor,
	max_drawdown, sharpe_ratio, total_return_pct, trades, created_at
`

// Insert adds a new backtest report. Returns ErrDuplicateKey if the id
// exists.
func (s *BacktestReportStore) Insert(ctx context.Context, report *domain.BacktestReport) error {
	if report == nil || report.ReportID == "" || report.StrategyID == "" {
		return storage.ErrInvalidInput
	}

	trades, err := json.Marshal(report.Trades)
	if err != nil {
		return fmt.Errorf("marshal trades: %w", err)
	}

	query := `
		INSERT INTO backtest_reports (
			report_id, strategy_id, symbol, timeframe, start_date, end_date,
			total_trades, wins, losses, win_rate, profit_factor,
			max_drawdown, sharpe_ratio, total_return_pct, trades, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = s.pool.Exec(ctx, query,
		report.ReportID,
		report.StrategyID,
		report.Symbol,
		report.Timeframe,
		report.StartDate,
		report.EndDate,
		report.TotalTrades,
		report.Wins,
		report.Losses,
		report.WinRate,
		report.ProfitFactor,
		report.MaxDrawdown,
		report.SharpeRatio,
		report.TotalReturnPct,
		trades,
		report.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert backtest report: %w", err)
	}
	return nil
}

// GetByID retrieves a report by id. Returns ErrNotFound if not exists.
func (s *BacktestReportStore) GetByID(ctx context.Context, reportID string) (*domain.BacktestReport, error) {
	query := `SELECT ` + reportColumns + ` FROM backtest_reports WHERE report_id = $1`

	row := s.pool.QueryRow(ctx, query, reportID)
	report, err := scanReport(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get backtest report by id: %w", err)
	}
	return report, nil
}

// GetByStrategyID retrieves all reports for a strategy, oldest first.
func (s *BacktestReportStore) GetByStrategyID(ctx context.Context, strategyID string) ([]*domain.BacktestReport, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM backtest_reports
		WHERE strategy_id = $1
		ORDER BY created_at ASC, report_id ASC
	`

	rows, err := s.pool.Query(ctx, query, strategyID)
	if err != nil {
		return nil, fmt.Errorf("list backtest reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.BacktestReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backtest report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate backtest report rows: %w", err)
	}
	return reports, nil
}

// GetLatestByStrategyID retrieves the most recent report for a strategy.
// Returns ErrNotFound if the strategy has no reports.
func (s *BacktestReportStore) GetLatestByStrategyID(ctx context.Context, strategyID string) (*domain.BacktestReport, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM backtest_reports
		WHERE strategy_id = $1
		ORDER BY created_at DESC, report_id DESC
		LIMIT 1
	`

	row := s.pool.QueryRow(ctx, query, strategyID)
	report, err := scanReport(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest backtest report: %w", err)
	}
	return report, nil
}

// scanReport scans a single row into a BacktestReport.
func scanReport(row pgx.Row) (*domain.BacktestReport, error) {
	var report domain.BacktestReport
	var trades []byte

	err := row.Scan(
		&report.ReportID,
		&report.StrategyID,
		&report.Symbol,
		&report.Timeframe,
		&report.StartDate,
		&report.EndDate,
		&report.TotalTrades,
		&report.Wins,
		&report.Losses,
		&report.WinRate,
		&report.ProfitFactor,
		&report.MaxDrawdown,
		&report.SharpeRatio,
		&report.TotalReturnPct,
		&trades,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(trades) > 0 {
		if err := json.Unmarshal(trades, &report.Trades); err != nil {
			return nil, fmt.Errorf("unmarshal trades: %w", err)
		}
	}
	return &report, nil
}
