package storage

import (
	"context"

	"strategy-studio/internal/domain"
)

// StrategyStore provides access to strategy storage.
type StrategyStore interface {
	// Insert adds a new strategy. Returns ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, s *domain.StrategyRecord) error

	// GetByID retrieves a strategy by its id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, strategyID string) (*domain.StrategyRecord, error)

	// List retrieves all strategies owned by a user, ordered by created_at ASC.
	List(ctx context.Context, ownerID string) ([]*domain.StrategyRecord, error)

	// ListPublic retrieves all public strategies, ordered by updated_at DESC.
	ListPublic(ctx context.Context) ([]*domain.StrategyRecord, error)

	// Update replaces a stored strategy, bumps its version, and refreshes
	// updated_at. Returns ErrNotFound if the id does not exist.
	Update(ctx context.Context, s *domain.StrategyRecord) error

	// Delete removes a strategy. Returns ErrNotFound if the id does not exist.
	Delete(ctx context.Context, strategyID string) error
}

// UserStore provides access to user accounts.
type UserStore interface {
	// Insert adds a new user. Returns ErrDuplicateKey if the id or email exists.
	Insert(ctx context.Context, u *domain.User) error

	// GetByID retrieves a user by id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, userID string) (*domain.User, error)

	// GetByEmail retrieves a user by email. Returns ErrNotFound if not exists.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// BacktestReportStore provides access to stored backtest reports.
type BacktestReportStore interface {
	// Insert adds a new report. Returns ErrDuplicateKey if report_id exists.
	Insert(ctx context.Context, r *domain.BacktestReport) error

	// GetByID retrieves a report by id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, reportID string) (*domain.BacktestReport, error)

	// GetByStrategyID retrieves all reports for a strategy, ordered by
	// created_at ASC.
	GetByStrategyID(ctx context.Context, strategyID string) ([]*domain.BacktestReport, error)

	// GetLatestByStrategyID retrieves the most recent report for a strategy.
	// Returns ErrNotFound if the strategy has never been backtested.
	GetLatestByStrategyID(ctx context.Context, strategyID string) (*domain.BacktestReport, error)
}

// BacktestTradeStore provides access to per-trade analytics rows.
type BacktestTradeStore interface {
	// InsertBulk adds multiple trades. Fails the entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.BacktestTrade) error

	// GetByReportID retrieves all trades for a report, ordered by date ASC.
	GetByReportID(ctx context.Context, reportID string) ([]*domain.BacktestTrade, error)
}

// AssetStore provides opaque blob storage: store bytes, get a URL back.
type AssetStore interface {
	// Put stores a blob and returns its asset metadata including the
	// retrieval URL. Re-uploading identical content to the same location
	// returns the existing asset.
	Put(ctx context.Context, folder, filename, contentType string, content []byte) (*domain.Asset, error)

	// Get retrieves a stored blob by asset id. Returns ErrNotFound if not exists.
	Get(ctx context.Context, assetID string) (*domain.Asset, []byte, error)
}
