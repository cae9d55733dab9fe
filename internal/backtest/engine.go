// Package backtest produces simulated performance reports for strategies.
// The engine is a mock: it does not fetch market data. Reports are synthetic
// but deterministic, seeded from the run parameters, so repeating a run
// yields the identical report and trade list.
package backtest

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/idhash"
	"strategy-studio/internal/storage"
)

// Request names one backtest run.
type Request struct {
	StrategyID string
	Symbol     string
	Timeframe  string
	StartDate  int64 // Unix ms, inclusive
	EndDate    int64 // Unix ms, exclusive
}

// ProgressFunc is invoked after each simulated trade with the number of
// trades completed so far and the total planned.
type ProgressFunc func(done, total int)

// Engine generates mock backtest reports.
type Engine struct {
	stepDelay time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithStepDelay inserts a pause between simulated trades so progress
// streaming has something to show. Tests leave it at zero.
func WithStepDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.stepDelay = d
	}
}

// NewEngine creates a backtest engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run simulates a strategy over the requested range and returns a report.
// The trade list and every metric derive from a seed computed over the run
// parameters, so the same request always produces the same report.
func (e *Engine) Run(ctx context.Context, strat *domain.StrategyRecord, req Request, progress ProgressFunc) (*domain.BacktestReport, error) {
	if strat == nil {
		return nil, fmt.Errorf("run backtest: nil strategy: %w", storage.ErrInvalidInput)
	}
	if req.Symbol == "" || req.Timeframe == "" {
		return nil, fmt.Errorf("run backtest: symbol and timeframe are required: %w", storage.ErrInvalidInput)
	}
	if req.StartDate >= req.EndDate {
		return nil, fmt.Errorf("run backtest: start date %d is not before end date %d: %w", req.StartDate, req.EndDate, storage.ErrInvalidInput)
	}

	reportID := idhash.ComputeBacktestID(req.StrategyID, req.Symbol, req.Timeframe, req.StartDate, req.EndDate)
	rng := rand.New(rand.NewSource(seedFromID(reportID)))

	// Shorts only appear when the strategy actually has short entry rules.
	allowShorts := len(strat.EntryShort.ConditionGroups) > 0

	total := 8 + rng.Intn(17)
	span := req.EndDate - req.StartDate
	basePrice := 20.0 + rng.Float64()*480.0

	report := &domain.BacktestReport{
		ReportID:   reportID,
		StrategyID: req.StrategyID,
		Symbol:     req.Symbol,
		Timeframe:  req.Timeframe,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Trades:     make([]domain.BacktestTrade, 0, total),
		CreatedAt:  time.Now().UnixMilli(),
	}

	price := basePrice
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run backtest: %w", err)
		}
		if e.stepDelay > 0 {
			select {
			case <-time.After(e.stepDelay):
			case <-ctx.Done():
				return nil, fmt.Errorf("run backtest: %w", ctx.Err())
			}
		}

		side := domain.TradeLong
		if allowShorts && rng.Intn(2) == 1 {
			side = domain.TradeShort
		}

		// Drift the entry and pick a move between -6% and +8%. The slight
		// positive bias keeps mock reports mildly encouraging, matching
		// the storefront's canned numbers.
		price = price * (1 + (rng.Float64()-0.5)*0.04)
		movePct := rng.Float64()*14.0 - 6.0

		entry := decimal.NewFromFloat(price).Round(4)
		exitPrice := price * (1 + movePct/100)
		exit := decimal.NewFromFloat(exitPrice).Round(4)

		pnl := exit.Sub(entry)
		pnlPercent := movePct
		if side == domain.TradeShort {
			pnl = pnl.Neg()
			pnlPercent = -movePct
		}

		date := req.StartDate + int64(float64(span)*float64(i)/float64(total))
		report.Trades = append(report.Trades, domain.BacktestTrade{
			TradeID:    idhash.ComputeTradeID(reportID, i),
			ReportID:   reportID,
			Date:       date,
			Type:       side,
			Entry:      entry,
			Exit:       exit,
			PnL:        pnl.Round(4),
			PnLPercent: roundPct(pnlPercent),
		})

		if progress != nil {
			progress(i+1, total)
		}
	}

	computeMetrics(report)
	return report, nil
}

// seedFromID folds the leading bytes of a hex report id into an RNG seed.
func seedFromID(reportID string) int64 {
	raw, err := hex.DecodeString(reportID)
	if err != nil || len(raw) < 8 {
		// Report ids are always 64 hex chars
		return int64(len(reportID))
	}
	return int64(binary.BigEndian.Uint64(raw[:8]))
}

func roundPct(v float64) float64 {
	return math.Round(v*100) / 100
}
