// Package rules defines construction, normalization, and validation of the
// strategy rule model. Everything here is pure: functions take and return
// values, never mutate their inputs in place.
package rules

import (
	"strategy-studio/internal/domain"
	"strategy-studio/internal/idhash"
	"strategy-studio/internal/indicator"
)

// DefaultCondition returns a new condition with indicator-appropriate
// defaults. RSI defaults to 14-period close with a "less than 30" test;
// other kinds get neutral crossing/threshold defaults. The id is freshly
// generated and never reused.
func DefaultCondition(kind domain.IndicatorKind) (domain.IndicatorCondition, error) {
	params, err := indicator.DefaultParams(kind)
	if err != nil {
		return domain.IndicatorCondition{}, err
	}

	cond := domain.IndicatorCondition{
		ID:        idhash.NewRandomID(),
		Indicator: kind,
		Parameter: "value",
		Timeframe: "1d",
		Params:    params,
	}

	switch kind {
	case domain.IndicatorRSI:
		cond.Logic = domain.LogicLessThan
		cond.Value = "30"
	case domain.IndicatorStochastic:
		cond.Logic = domain.LogicLessThan
		cond.Value = "20"
	case domain.IndicatorSMA, domain.IndicatorEMA, domain.IndicatorMACD:
		cond.Logic = domain.LogicCrossesAbove
		cond.Value = "0"
	case domain.IndicatorBollinger:
		cond.Parameter = "lower_band"
		cond.Logic = domain.LogicCrossesBelow
		cond.Value = "0"
	case domain.IndicatorVolume:
		cond.Logic = domain.LogicGreaterThan
		cond.Value = "100000"
	case domain.IndicatorPrice:
		cond.Logic = domain.LogicGreaterThan
		cond.Value = "0"
	}

	return cond, nil
}

// defaultGroup wraps a single condition in a fresh OR-combining group.
func defaultGroup(cond domain.IndicatorCondition) domain.ConditionGroup {
	return domain.ConditionGroup{
		ID:         idhash.NewRandomID(),
		Conditions: []domain.IndicatorCondition{cond},
		Operator:   domain.GroupOr,
	}
}

// defaultRule builds a position rule around one default condition.
func defaultRule(kind domain.IndicatorKind, logic domain.LogicOp, value domain.ConditionValue) domain.PositionRule {
	cond, err := DefaultCondition(kind)
	if err != nil {
		// Only reachable with an unregistered kind, which defaults never use.
		panic(err)
	}
	cond.Logic = logic
	cond.Value = value
	return domain.PositionRule{
		ID:              idhash.NewRandomID(),
		ConditionGroups: []domain.ConditionGroup{defaultGroup(cond)},
	}
}

// DefaultRiskManagement returns the editor's starting risk configuration:
// 2% stop, 4% target, 10%-of-equity sizing with 2% max risk, three open
// positions, 20% drawdown cap.
func DefaultRiskManagement() *domain.RiskManagementConfig {
	equityPct := domain.Numeric(10)
	maxRisk := domain.Numeric(domain.DefaultRiskPerTrade)

	return &domain.RiskManagementConfig{
		StopLoss: []domain.RiskRule{
			{ID: idhash.NewRandomID(), Type: domain.RiskTypePercentage, Value: 2, Enabled: true},
		},
		TakeProfit: []domain.RiskRule{
			{ID: idhash.NewRandomID(), Type: domain.RiskTypePercentage, Value: 4, Enabled: true},
		},
		TrailingStop: []domain.RiskRule{},
		PositionSizing: []domain.PositionSizingRule{
			{
				ID:               idhash.NewRandomID(),
				Type:             domain.RiskTypePercentage,
				Value:            10,
				EquityPercentage: &equityPct,
				MaxRisk:          &maxRisk,
				Enabled:          true,
			},
		},
		MaxOpenPositions: 3,
		MaxDrawdown:      20,
	}
}

// DefaultStrategy returns a complete editable strategy with one default
// group and condition per rule set: RSI mean-reversion entries and the
// mirrored exits.
func DefaultStrategy(name string) domain.StrategyConfig {
	return domain.StrategyConfig{
		Name:           name,
		EntryLong:      defaultRule(domain.IndicatorRSI, domain.LogicLessThan, "30"),
		ExitLong:       defaultRule(domain.IndicatorRSI, domain.LogicGreaterThan, "70"),
		EntryShort:     defaultRule(domain.IndicatorRSI, domain.LogicGreaterThan, "70"),
		ExitShort:      defaultRule(domain.IndicatorRSI, domain.LogicLessThan, "30"),
		RiskManagement: DefaultRiskManagement(),
	}
}
