// Package templates holds the built-in starter strategies offered by the
// storefront. Each call builds a fresh copy with new ids so editing one
// user's copy never touches another's.
package templates

import (
	"strategy-studio/internal/domain"
	"strategy-studio/internal/idhash"
	"strategy-studio/internal/rules"
)

// RiskLevel buckets a template by how aggressive its rules are. The survey
// recommender matches these against the user's answers.
type RiskLevel string

// Risk level constants.
const (
	RiskConservative RiskLevel = "conservative"
	RiskModerate     RiskLevel = "moderate"
	RiskAggressive   RiskLevel = "aggressive"
)

// Template is one catalog entry: a ready-to-edit strategy plus the metadata
// the storefront and survey recommender display and score on.
type Template struct {
	Slug        string
	Name        string
	Description string
	Risk        RiskLevel
	Experience  domain.ExperienceLevel // minimum suggested experience
	Build       func() domain.StrategyConfig
}

// All returns the template catalog in display order.
func All() []Template {
	return []Template{
		{
			Slug:        "ma-cross",
			Name:        "Moving Average Cross",
			Description: "Trend-following: enter long when the fast SMA crosses above the slow SMA, exit on the reverse cross.",
			Risk:        RiskConservative,
			Experience:  domain.ExperienceBeginner,
			Build:       maCross,
		},
		{
			Slug:        "rsi-reversion",
			Name:        "RSI Mean Reversion",
			Description: "Buy oversold, sell overbought: RSI below 30 enters long, above 70 exits.",
			Risk:        RiskModerate,
			Experience:  domain.ExperienceBeginner,
			Build:       rsiReversion,
		},
		{
			Slug:        "breakout",
			Name:        "Volatility Breakout",
			Description: "Enter when price breaks the upper Bollinger band on elevated volume, exit at the middle band.",
			Risk:        RiskAggressive,
			Experience:  domain.ExperienceIntermediate,
			Build:       breakout,
		},
		{
			Slug:        "macd-momentum",
			Name:        "MACD Momentum",
			Description: "Momentum entries on MACD signal-line crosses, filtered by a stochastic confirmation.",
			Risk:        RiskModerate,
			Experience:  domain.ExperienceIntermediate,
			Build:       macdMomentum,
		},
	}
}

// BySlug returns the template with the given slug, or false.
func BySlug(slug string) (Template, bool) {
	for _, tmpl := range All() {
		if tmpl.Slug == slug {
			return tmpl, true
		}
	}
	return Template{}, false
}

func condition(kind domain.IndicatorKind, parameter string, logic domain.LogicOp, value domain.ConditionValue, params domain.ConditionParams) domain.IndicatorCondition {
	return domain.IndicatorCondition{
		ID:        idhash.NewRandomID(),
		Indicator: kind,
		Parameter: parameter,
		Logic:     logic,
		Value:     value,
		Timeframe: "1d",
		Params:    params,
	}
}

func rule(conds ...domain.IndicatorCondition) domain.PositionRule {
	return domain.PositionRule{
		ID: idhash.NewRandomID(),
		ConditionGroups: []domain.ConditionGroup{
			{
				ID:         idhash.NewRandomID(),
				Conditions: conds,
				Operator:   domain.GroupOr,
			},
		},
	}
}

func maCross() domain.StrategyConfig {
	fast := domain.ConditionParams{MovingAvg: &domain.MovingAvgParams{Period: 20, Source: "close"}}
	slow := "sma_50"

	return domain.StrategyConfig{
		Name:        "Moving Average Cross",
		Description: "Fast SMA(20) against slow SMA(50) trend following.",
		EntryLong: rule(
			condition(domain.IndicatorSMA, "value", domain.LogicCrossesAbove, domain.ConditionValue(slow), fast),
		),
		ExitLong: rule(
			condition(domain.IndicatorSMA, "value", domain.LogicCrossesBelow, domain.ConditionValue(slow), fast),
		),
		EntryShort: rule(
			condition(domain.IndicatorSMA, "value", domain.LogicCrossesBelow, domain.ConditionValue(slow), fast),
		),
		ExitShort: rule(
			condition(domain.IndicatorSMA, "value", domain.LogicCrossesAbove, domain.ConditionValue(slow), fast),
		),
		RiskManagement: rules.DefaultRiskManagement(),
	}
}

func rsiReversion() domain.StrategyConfig {
	cfg := rules.DefaultStrategy("RSI Mean Reversion")
	cfg.Description = "Classic oversold/overbought reversion on RSI(14)."
	return cfg
}

func breakout() domain.StrategyConfig {
	bands := domain.ConditionParams{Bollinger: &domain.BollingerParams{Period: 20, StdDev: 2}}
	vol := domain.ConditionParams{Volume: &domain.VolumeParams{Period: 20}}

	return domain.StrategyConfig{
		Name:        "Volatility Breakout",
		Description: "Band breakouts confirmed by above-average volume.",
		EntryLong: rule(
			condition(domain.IndicatorPrice, "value", domain.LogicCrossesAbove, "upper_band", domain.ConditionParams{Price: &domain.PriceParams{Source: "close"}}),
			condition(domain.IndicatorVolume, "value", domain.LogicGreaterThan, "150000", vol),
		),
		ExitLong: rule(
			condition(domain.IndicatorPrice, "value", domain.LogicCrossesBelow, "middle_band", domain.ConditionParams{Price: &domain.PriceParams{Source: "close"}}),
		),
		EntryShort: rule(
			condition(domain.IndicatorBollinger, "lower_band", domain.LogicCrossesBelow, "0", bands),
			condition(domain.IndicatorVolume, "value", domain.LogicGreaterThan, "150000", vol),
		),
		ExitShort: rule(
			condition(domain.IndicatorBollinger, "middle_band", domain.LogicCrossesAbove, "0", bands),
		),
		RiskManagement: aggressiveRisk(),
	}
}

func macdMomentum() domain.StrategyConfig {
	macd := domain.ConditionParams{MACD: &domain.MACDParams{FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9}}
	stoch := domain.ConditionParams{Stochastic: &domain.StochasticParams{KPeriod: 14, DPeriod: 3, Smooth: 3}}

	return domain.StrategyConfig{
		Name:        "MACD Momentum",
		Description: "Signal-line momentum with stochastic confirmation.",
		EntryLong: rule(
			condition(domain.IndicatorMACD, "value", domain.LogicCrossesAbove, "signal_line", macd),
			condition(domain.IndicatorStochastic, "value", domain.LogicGreaterThan, "20", stoch),
		),
		ExitLong: rule(
			condition(domain.IndicatorMACD, "value", domain.LogicCrossesBelow, "signal_line", macd),
		),
		EntryShort: rule(
			condition(domain.IndicatorMACD, "value", domain.LogicCrossesBelow, "signal_line", macd),
			condition(domain.IndicatorStochastic, "value", domain.LogicLessThan, "80", stoch),
		),
		ExitShort: rule(
			condition(domain.IndicatorMACD, "value", domain.LogicCrossesAbove, "signal_line", macd),
		),
		RiskManagement: rules.DefaultRiskManagement(),
	}
}

// aggressiveRisk widens the default stops for the breakout template.
func aggressiveRisk() *domain.RiskManagementConfig {
	cfg := rules.DefaultRiskManagement()
	cfg.StopLoss[0].Value = 4
	cfg.TakeProfit[0].Value = 10
	cfg.MaxOpenPositions = 5
	cfg.MaxDrawdown = 30
	return cfg
}
