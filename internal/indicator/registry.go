// Package indicator is the single source of truth mapping indicator kinds to
// display names, default parameters, and natural-language comparison phrases.
// Both code generators and the validator resolve indicators through it.
package indicator

import (
	"fmt"
	"strconv"
	"strings"

	"strategy-studio/internal/domain"
)

// UnknownIndicatorError reports an indicator kind the registry does not know.
// Reaching a generator with one indicates data corruption, not missing input.
type UnknownIndicatorError struct {
	Kind domain.IndicatorKind
}

func (e *UnknownIndicatorError) Error() string {
	return fmt.Sprintf("unknown indicator kind %q", string(e.Kind))
}

// UnknownLogicError reports a comparison operator the registry does not know.
type UnknownLogicError struct {
	Logic domain.LogicOp
}

func (e *UnknownLogicError) Error() string {
	return fmt.Sprintf("unknown logic operator %q", string(e.Logic))
}

// baseNames maps indicator kinds to their bare display names.
var baseNames = map[domain.IndicatorKind]string{
	domain.IndicatorRSI:        "RSI",
	domain.IndicatorSMA:        "SMA",
	domain.IndicatorEMA:        "EMA",
	domain.IndicatorMACD:       "MACD",
	domain.IndicatorBollinger:  "BB",
	domain.IndicatorStochastic: "STOCH",
	domain.IndicatorVolume:     "Volume",
	domain.IndicatorPrice:      "Price",
}

// Known reports whether the registry recognizes the indicator kind.
func Known(kind domain.IndicatorKind) bool {
	_, ok := baseNames[kind]
	return ok
}

// Kinds returns every registered indicator kind. Order is unspecified.
func Kinds() []domain.IndicatorKind {
	kinds := make([]domain.IndicatorKind, 0, len(baseNames))
	for k := range baseNames {
		kinds = append(kinds, k)
	}
	return kinds
}

// DisplayName renders a condition's indicator with its parameters, e.g.
// "RSI(14)" or "SMA(20, close)". When no params variant is set the bare
// indicator name is returned, which is what indicator-collection uses.
// Returns UnknownIndicatorError for unregistered kinds.
func DisplayName(c domain.IndicatorCondition) (string, error) {
	base, ok := baseNames[c.Indicator]
	if !ok {
		return "", &UnknownIndicatorError{Kind: c.Indicator}
	}
	if c.Params.IsZero() {
		return base, nil
	}

	switch c.Indicator {
	case domain.IndicatorRSI:
		if p := c.Params.RSI; p != nil {
			return fmt.Sprintf("%s(%d)", base, p.Period), nil
		}
	case domain.IndicatorSMA, domain.IndicatorEMA:
		if p := c.Params.MovingAvg; p != nil {
			if p.Source != "" {
				return fmt.Sprintf("%s(%d, %s)", base, p.Period, p.Source), nil
			}
			return fmt.Sprintf("%s(%d)", base, p.Period), nil
		}
	case domain.IndicatorMACD:
		if p := c.Params.MACD; p != nil {
			return fmt.Sprintf("%s(%d, %d, %d)", base, p.FastPeriod, p.SlowPeriod, p.SignalPeriod), nil
		}
	case domain.IndicatorBollinger:
		if p := c.Params.Bollinger; p != nil {
			return fmt.Sprintf("%s(%d, %s)", base, p.Period,
				strconv.FormatFloat(p.StdDev.Float64(), 'f', -1, 64)), nil
		}
	case domain.IndicatorStochastic:
		if p := c.Params.Stochastic; p != nil {
			return fmt.Sprintf("%s(%d, %d, %d)", base, p.KPeriod, p.DPeriod, p.Smooth), nil
		}
	case domain.IndicatorVolume:
		if p := c.Params.Volume; p != nil && p.Period > 0 {
			return fmt.Sprintf("%s(%d)", base, p.Period), nil
		}
	case domain.IndicatorPrice:
		if p := c.Params.Price; p != nil && p.Source != "" {
			return fmt.Sprintf("%s(%s)", base, p.Source), nil
		}
	}

	// Params variant set for a different kind: fall back to the bare name
	// rather than rendering mismatched parameters.
	return base, nil
}

// LogicPhrase renders the comparison of a condition in natural language,
// e.g. "is less than 30" or "crosses above 70". Every registered LogicOp
// maps to a distinct phrase; an unrecognized operator returns
// UnknownLogicError because silently mis-rendering would corrupt generated
// code.
func LogicPhrase(c domain.IndicatorCondition) (string, error) {
	value := string(c.Value.Canonical())

	switch c.Logic {
	case domain.LogicLessThan:
		return "is less than " + value, nil
	case domain.LogicGreaterThan:
		return "is greater than " + value, nil
	case domain.LogicLessOrEqual:
		return "is at most " + value, nil
	case domain.LogicGreaterOrEqual:
		return "is at least " + value, nil
	case domain.LogicEquals:
		return "equals " + value, nil
	case domain.LogicNotEquals:
		return "does not equal " + value, nil
	case domain.LogicCrossesAbove:
		return "crosses above " + value, nil
	case domain.LogicCrossesBelow:
		return "crosses below " + value, nil
	}
	return "", &UnknownLogicError{Logic: c.Logic}
}

// ScriptSymbol maps a LogicOp to its script-syntax operator token. The set
// of recognized operators is identical to LogicPhrase by construction; both
// generators must cover the same tree.
func ScriptSymbol(logic domain.LogicOp) (string, error) {
	switch logic {
	case domain.LogicLessThan:
		return "<", nil
	case domain.LogicGreaterThan:
		return ">", nil
	case domain.LogicLessOrEqual:
		return "<=", nil
	case domain.LogicGreaterOrEqual:
		return ">=", nil
	case domain.LogicEquals:
		return "==", nil
	case domain.LogicNotEquals:
		return "!=", nil
	case domain.LogicCrossesAbove:
		return "crosses_above", nil
	case domain.LogicCrossesBelow:
		return "crosses_below", nil
	}
	return "", &UnknownLogicError{Logic: logic}
}

// VarName derives the script-declaration variable name from a condition's
// display name: "MACD(12, 26, 9)" -> "macd_12_26_9".
func VarName(c domain.IndicatorCondition) (string, error) {
	name, err := DisplayName(c)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	lastUnderscore := true // trim leading separators
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_"), nil
}

// Declaration renders the assignment right-hand side for a script
// declaration, e.g. "RSI(period=14, source=close)". Conditions without a
// params variant declare with an empty argument list.
func Declaration(c domain.IndicatorCondition) (string, error) {
	if _, ok := baseNames[c.Indicator]; !ok {
		return "", &UnknownIndicatorError{Kind: c.Indicator}
	}

	switch c.Indicator {
	case domain.IndicatorRSI:
		if p := c.Params.RSI; p != nil {
			return fmt.Sprintf("RSI(period=%d, source=%s)", p.Period, p.Source), nil
		}
		return "RSI()", nil
	case domain.IndicatorSMA:
		if p := c.Params.MovingAvg; p != nil {
			return fmt.Sprintf("SMA(period=%d, source=%s)", p.Period, p.Source), nil
		}
		return "SMA()", nil
	case domain.IndicatorEMA:
		if p := c.Params.MovingAvg; p != nil {
			return fmt.Sprintf("EMA(period=%d, source=%s)", p.Period, p.Source), nil
		}
		return "EMA()", nil
	case domain.IndicatorMACD:
		if p := c.Params.MACD; p != nil {
			return fmt.Sprintf("MACD(fast=%d, slow=%d, signal=%d)", p.FastPeriod, p.SlowPeriod, p.SignalPeriod), nil
		}
		return "MACD()", nil
	case domain.IndicatorBollinger:
		if p := c.Params.Bollinger; p != nil {
			return fmt.Sprintf("BBANDS(period=%d, stddev=%s)", p.Period,
				strconv.FormatFloat(p.StdDev.Float64(), 'f', -1, 64)), nil
		}
		return "BBANDS()", nil
	case domain.IndicatorStochastic:
		if p := c.Params.Stochastic; p != nil {
			return fmt.Sprintf("STOCH(k=%d, d=%d, smooth=%d)", p.KPeriod, p.DPeriod, p.Smooth), nil
		}
		return "STOCH()", nil
	case domain.IndicatorVolume:
		if p := c.Params.Volume; p != nil && p.Period > 0 {
			return fmt.Sprintf("VOLUME(period=%d)", p.Period), nil
		}
		return "VOLUME()", nil
	case domain.IndicatorPrice:
		if p := c.Params.Price; p != nil && p.Source != "" {
			return fmt.Sprintf("PRICE(source=%s)", p.Source), nil
		}
		return "PRICE()", nil
	}
	return "", &UnknownIndicatorError{Kind: c.Indicator}
}

// DefaultParams returns the canonical default parameter set for an
// indicator kind: RSI(14, close), SMA/EMA(20, close), MACD(12, 26, 9),
// BB(20, 2), STOCH(14, 3, 3). Returns UnknownIndicatorError for
// unregistered kinds.
func DefaultParams(kind domain.IndicatorKind) (domain.ConditionParams, error) {
	switch kind {
	case domain.IndicatorRSI:
		return domain.ConditionParams{RSI: &domain.RSIParams{Period: 14, Source: "close"}}, nil
	case domain.IndicatorSMA, domain.IndicatorEMA:
		return domain.ConditionParams{MovingAvg: &domain.MovingAvgParams{Period: 20, Source: "close"}}, nil
	case domain.IndicatorMACD:
		return domain.ConditionParams{MACD: &domain.MACDParams{FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9}}, nil
	case domain.IndicatorBollinger:
		return domain.ConditionParams{Bollinger: &domain.BollingerParams{Period: 20, StdDev: 2}}, nil
	case domain.IndicatorStochastic:
		return domain.ConditionParams{Stochastic: &domain.StochasticParams{KPeriod: 14, DPeriod: 3, Smooth: 3}}, nil
	case domain.IndicatorVolume:
		return domain.ConditionParams{Volume: &domain.VolumeParams{}}, nil
	case domain.IndicatorPrice:
		return domain.ConditionParams{Price: &domain.PriceParams{Source: "close"}}, nil
	}
	return domain.ConditionParams{}, &UnknownIndicatorError{Kind: kind}
}

// AllLogicOps returns every comparison operator the registry renders.
// Tests iterate this to prove phrase coverage stays exhaustive.
func AllLogicOps() []domain.LogicOp {
	return []domain.LogicOp{
		domain.LogicLessThan,
		domain.LogicGreaterThan,
		domain.LogicLessOrEqual,
		domain.LogicGreaterOrEqual,
		domain.LogicEquals,
		domain.LogicNotEquals,
		domain.LogicCrossesAbove,
		domain.LogicCrossesBelow,
	}
}
