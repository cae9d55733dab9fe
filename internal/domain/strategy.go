package domain

// IndicatorKind enumerates the supported technical indicators.
type IndicatorKind string

// Indicator kind constants.
const (
	IndicatorRSI        IndicatorKind = "rsi"
	IndicatorSMA        IndicatorKind = "sma"
	IndicatorEMA        IndicatorKind = "ema"
	IndicatorMACD       IndicatorKind = "macd"
	IndicatorBollinger  IndicatorKind = "bollinger"
	IndicatorStochastic IndicatorKind = "stochastic"
	IndicatorVolume     IndicatorKind = "volume"
	IndicatorPrice      IndicatorKind = "price"
)

// LogicOp enumerates the comparison operators a condition can use.
type LogicOp string

// Comparison operator constants.
const (
	LogicLessThan       LogicOp = "less_than"
	LogicGreaterThan    LogicOp = "greater_than"
	LogicLessOrEqual    LogicOp = "less_or_equal"
	LogicGreaterOrEqual LogicOp = "greater_or_equal"
	LogicEquals         LogicOp = "equals"
	LogicNotEquals      LogicOp = "not_equals"
	LogicCrossesAbove   LogicOp = "crosses_above"
	LogicCrossesBelow   LogicOp = "crosses_below"
)

// GroupOperator describes how a condition group combines with its siblings
// inside the same position rule. Groups combine with OR; conditions inside
// a group combine with AND.
type GroupOperator string

// Group operator constants.
const (
	GroupOr  GroupOperator = "or"
	GroupAnd GroupOperator = "and"
)

// IndicatorCondition is a single comparison between an indicator output and
// a threshold value.
type IndicatorCondition struct {
	ID        string          `json:"id"`
	Indicator IndicatorKind   `json:"indicator"`
	Parameter string          `json:"parameter"` // which output series to read: "value", "signal_line", ...
	Logic     LogicOp         `json:"logic"`
	Value     ConditionValue  `json:"value"`
	Timeframe string          `json:"timeframe"` // candle interval, e.g. "1d", "4h"
	Params    ConditionParams `json:"params,omitempty"`
}

// ConditionGroup is an ordered set of conditions combined with logical AND.
type ConditionGroup struct {
	ID         string               `json:"id"`
	Conditions []IndicatorCondition `json:"conditions"`
	Operator   GroupOperator        `json:"operator"`
}

// PositionRule is an ordered set of condition groups combined with logical OR.
// A strategy carries four of these: entry/exit for long and short.
type PositionRule struct {
	ID              string           `json:"id"`
	ConditionGroups []ConditionGroup `json:"conditionGroups"`
}

// StrategyStatus is the lifecycle state of a stored strategy.
type StrategyStatus string

// Strategy status constants.
const (
	StatusDraft    StrategyStatus = "draft"
	StatusActive   StrategyStatus = "active"
	StatusArchived StrategyStatus = "archived"
)

// StrategyConfig is the aggregate root of the rule model.
type StrategyConfig struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	EntryLong  PositionRule `json:"entryLong"`
	EntryShort PositionRule `json:"entryShort"`
	ExitLong   PositionRule `json:"exitLong"`
	ExitShort  PositionRule `json:"exitShort"`

	RiskManagement *RiskManagementConfig `json:"riskManagement"`

	IsPublic bool `json:"isPublic"`
}

// StrategyRecord is a stored strategy with persistence metadata.
type StrategyRecord struct {
	StrategyConfig

	OwnerID   string         `json:"ownerId"`
	Status    StrategyStatus `json:"status"`
	Version   int            `json:"version"`
	CreatedAt int64          `json:"createdAt"` // Unix timestamp in milliseconds
	UpdatedAt int64          `json:"updatedAt"`
}

// NamedRule pairs a position rule with its JSON key and display label.
type NamedRule struct {
	Key   string
	Label string
	Rule  PositionRule
}

// RuleSets returns the four position rules in canonical order together with
// their JSON keys and display labels. Generators and the validator iterate
// this instead of hard-coding field access in four places.
func (s *StrategyConfig) RuleSets() []NamedRule {
	return []NamedRule{
		{Key: "entryLong", Label: "Long Entry", Rule: s.EntryLong},
		{Key: "exitLong", Label: "Long Exit", Rule: s.ExitLong},
		{Key: "entryShort", Label: "Short Entry", Rule: s.EntryShort},
		{Key: "exitShort", Label: "Short Exit", Rule: s.ExitShort},
	}
}
