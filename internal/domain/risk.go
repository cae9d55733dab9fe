package domain

// RiskRuleType enumerates how a protective rule's value is interpreted.
type RiskRuleType string

// Risk rule type constants.
const (
	RiskTypePercentage RiskRuleType = "percentage"
	RiskTypeFixed      RiskRuleType = "fixed"
	RiskTypeATRBased   RiskRuleType = "atr_based"
)

// RiskRule is a single stop-loss, take-profit, or trailing-stop rule.
type RiskRule struct {
	ID      string       `json:"id"`
	Type    RiskRuleType `json:"type"`
	Value   Numeric      `json:"value"`
	Enabled bool         `json:"enabled"`
}

// PositionSizingRule controls how much equity a single trade commits.
type PositionSizingRule struct {
	ID               string       `json:"id"`
	Type             RiskRuleType `json:"type"`
	Value            Numeric      `json:"value"`
	EquityPercentage *Numeric     `json:"equityPercentage,omitempty"`
	MaxRisk          *Numeric     `json:"maxRisk,omitempty"` // percent of equity risked per trade
	Enabled          bool         `json:"enabled"`
}

// RiskManagementConfig holds sizing and loss-protection settings applied to
// a strategy independent of its entry/exit logic.
type RiskManagementConfig struct {
	StopLoss       []RiskRule           `json:"stopLoss"`
	TakeProfit     []RiskRule           `json:"takeProfit"`
	TrailingStop   []RiskRule           `json:"trailingStop"`
	PositionSizing []PositionSizingRule `json:"positionSizing"`

	MaxOpenPositions int     `json:"maxOpenPositions"`
	MaxDrawdown      Numeric `json:"maxDrawdown"` // percent

	// Advanced, all optional.
	MaxDailyLoss         *Numeric `json:"maxDailyLoss,omitempty"`
	MaxConsecutiveLosses *int     `json:"maxConsecutiveLosses,omitempty"`
	ProfitTarget         *Numeric `json:"profitTarget,omitempty"`
	RiskRewardMinimum    *Numeric `json:"riskRewardMinimum,omitempty"`
	Pyramiding           *int     `json:"pyramiding,omitempty"`
	SessionStart         string   `json:"sessionStart,omitempty"` // "HH:MM" UTC
	SessionEnd           string   `json:"sessionEnd,omitempty"`
	UseLeverage          bool     `json:"useLeverage,omitempty"`
	LeverageRatio        *Numeric `json:"leverageRatio,omitempty"`
}

// DefaultRiskPerTrade is the documented fallback used when no position
// sizing rule declares a max risk.
const DefaultRiskPerTrade = 2.0

// RiskPerTrade returns the max risk percent from the first position sizing
// rule, falling back to DefaultRiskPerTrade when the list is empty or the
// first rule does not set one.
func (r *RiskManagementConfig) RiskPerTrade() float64 {
	if r == nil || len(r.PositionSizing) == 0 {
		return DefaultRiskPerTrade
	}
	if mr := r.PositionSizing[0].MaxRisk; mr != nil {
		return mr.Float64()
	}
	return DefaultRiskPerTrade
}
