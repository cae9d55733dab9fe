package rules

import "strategy-studio/internal/domain"

// NormalizeCondition coerces a raw editor condition into canonical form:
// the value becomes a defined, canonically-formatted string (never absent,
// so downstream interpolation cannot crash), defaults are filled for blank
// parameter/timeframe fields, and well-typed params pass through untouched.
// It never fails; malformed numeric text is simply left as text for the
// validator to flag.
func NormalizeCondition(c domain.IndicatorCondition) domain.IndicatorCondition {
	c.Value = c.Value.Canonical()
	if c.Parameter == "" {
		c.Parameter = "value"
	}
	if c.Timeframe == "" {
		c.Timeframe = "1d"
	}
	return c
}

// normalizeRule normalizes every condition in a position rule. Nil group or
// condition slices stay nil so the validator can still distinguish a missing
// rule set from an empty one.
func normalizeRule(r domain.PositionRule) domain.PositionRule {
	if r.ConditionGroups == nil {
		return r
	}
	groups := make([]domain.ConditionGroup, len(r.ConditionGroups))
	for i, g := range r.ConditionGroups {
		ng := g
		if g.Operator == "" {
			ng.Operator = domain.GroupOr
		}
		if g.Conditions != nil {
			ng.Conditions = make([]domain.IndicatorCondition, len(g.Conditions))
			for j, c := range g.Conditions {
				ng.Conditions[j] = NormalizeCondition(c)
			}
		}
		groups[i] = ng
	}
	r.ConditionGroups = groups
	return r
}

// NormalizeStrategy returns a copy of the strategy with every condition in
// all four rule sets normalized. The input is not mutated.
func NormalizeStrategy(s domain.StrategyConfig) domain.StrategyConfig {
	s.EntryLong = normalizeRule(s.EntryLong)
	s.EntryShort = normalizeRule(s.EntryShort)
	s.ExitLong = normalizeRule(s.ExitLong)
	s.ExitShort = normalizeRule(s.ExitShort)
	return s
}
