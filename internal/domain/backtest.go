package domain

import "github.com/shopspring/decimal"

// TradeSide is the direction of a simulated trade.
type TradeSide string

// Trade side constants.
const (
	TradeLong  TradeSide = "long"
	TradeShort TradeSide = "short"
)

// BacktestTrade is a single simulated trade inside a backtest report.
type BacktestTrade struct {
	TradeID    string          `json:"tradeId"`
	ReportID   string          `json:"reportId"`
	Date       int64           `json:"date"` // entry timestamp, Unix ms
	Type       TradeSide       `json:"type"`
	Entry      decimal.Decimal `json:"entry"`
	Exit       decimal.Decimal `json:"exit"`
	PnL        decimal.Decimal `json:"pnl"`
	PnLPercent float64         `json:"pnlPercent"`
}

// BacktestReport holds aggregate metrics for one simulated strategy run.
type BacktestReport struct {
	ReportID   string `json:"reportId"`
	StrategyID string `json:"strategyId"`
	Symbol     string `json:"symbol"`
	Timeframe  string `json:"timeframe"`
	StartDate  int64  `json:"startDate"` // Unix ms
	EndDate    int64  `json:"endDate"`

	TotalTrades    int     `json:"totalTrades"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	WinRate        float64 `json:"winRate"` // wins / total trades
	ProfitFactor   float64 `json:"profitFactor"`
	MaxDrawdown    float64 `json:"maxDrawdown"` // worst peak-to-trough, percent
	SharpeRatio    float64 `json:"sharpeRatio"`
	TotalReturnPct float64 `json:"totalReturnPct"`

	Trades []BacktestTrade `json:"trades"`

	CreatedAt int64 `json:"createdAt"`
}
