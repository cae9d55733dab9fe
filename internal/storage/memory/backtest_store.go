package memory

import (
	"context"
	"sort"
	"sync"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/storage"
)

// BacktestReportStore is an in-memory implementation of
// storage.BacktestReportStore.
type BacktestReportStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BacktestReport // keyed by report id
}

// NewBacktestReportStore creates a new in-memory report store.
func NewBacktestReportStore() *BacktestReportStore {
	return &BacktestReportStore{
		data: make(map[string]*domain.BacktestReport),
	}
}

// Insert adds a new report. Returns ErrDuplicateKey if report_id exists.
func (s *BacktestReportStore) Insert(_ context.Context, r *domain.BacktestReport) error {
	if r == nil || r.ReportID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.ReportID]; exists {
		return storage.ErrDuplicateKey
	}

	reportCopy := *r
	reportCopy.Trades = append([]domain.BacktestTrade(nil), r.Trades...)
	s.data[r.ReportID] = &reportCopy
	return nil
}

// GetByID retrieves a report by id. Returns ErrNotFound if not exists.
func (s *BacktestReportStore) GetByID(_ context.Context, reportID string) (*domain.BacktestReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[reportID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	reportCopy := *r
	reportCopy.Trades = append([]domain.BacktestTrade(nil), r.Trades...)
	return &reportCopy, nil
}

// GetByStrategyID retrieves all reports for a strategy, ordered by
// created_at ASC.
func (s *BacktestReportStore) GetByStrategyID(_ context.Context, strategyID string) ([]*domain.BacktestReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.BacktestReport
	for _, r := range s.data {
		if r.StrategyID == strategyID {
			reportCopy := *r
			reportCopy.Trades = append([]domain.BacktestTrade(nil), r.Trades...)
			result = append(result, &reportCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].ReportID < result[j].ReportID
	})

	return result, nil
}

// GetLatestByStrategyID retrieves the most recent report for a strategy.
// Returns ErrNotFound if the strategy has never been backtested.
func (s *BacktestReportStore) GetLatestByStrategyID(ctx context.Context, strategyID string) (*domain.BacktestReport, error) {
	reports, err := s.GetByStrategyID(ctx, strategyID)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, storage.ErrNotFound
	}
	return reports[len(reports)-1], nil
}

// Verify interface compliance at compile time.
var _ storage.BacktestReportStore = (*BacktestReportStore)(nil)

// BacktestTradeStore is an in-memory implementation of
// storage.BacktestTradeStore.
type BacktestTradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BacktestTrade // keyed by trade id
}

// NewBacktestTradeStore creates a new in-memory trade store.
func NewBacktestTradeStore() *BacktestTradeStore {
	return &BacktestTradeStore{
		data: make(map[string]*domain.BacktestTrade),
	}
}

// InsertBulk adds multiple trades. Fails the entire batch on any duplicate.
func (s *BacktestTradeStore) InsertBulk(_ context.Context, trades []*domain.BacktestTrade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before committing any of it.
	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
	}

	for _, t := range trades {
		tradeCopy := *t
		s.data[t.TradeID] = &tradeCopy
	}
	return nil
}

// GetByReportID retrieves all trades for a report, ordered by date ASC.
func (s *BacktestTradeStore) GetByReportID(_ context.Context, reportID string) ([]*domain.BacktestTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.BacktestTrade
	for _, t := range s.data {
		if t.ReportID == reportID {
			tradeCopy := *t
			result = append(result, &tradeCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].TradeID < result[j].TradeID
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.BacktestTradeStore = (*BacktestTradeStore)(nil)
