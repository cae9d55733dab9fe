package rules

import (
	"sort"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/indicator"
)

// CollectIndicators walks all four rule sets and returns the set of unique
// indicator kinds used. Order-independent: permuting conditions or groups
// yields the same set.
func CollectIndicators(s domain.StrategyConfig) map[domain.IndicatorKind]struct{} {
	set := make(map[domain.IndicatorKind]struct{})
	for _, rs := range s.RuleSets() {
		for _, g := range rs.Rule.ConditionGroups {
			for _, c := range g.Conditions {
				set[c.Indicator] = struct{}{}
			}
		}
	}
	return set
}

// CollectIndicatorNames returns the sorted unique display names of every
// indicator used by the strategy. Two conditions on the same kind with
// different parameters ("RSI(14)" and "RSI(7)") are distinct entries.
// Sorting keeps generator output independent of condition ordering.
func CollectIndicatorNames(s domain.StrategyConfig) ([]string, error) {
	seen := make(map[string]struct{})
	for _, rs := range s.RuleSets() {
		for _, g := range rs.Rule.ConditionGroups {
			for _, c := range g.Conditions {
				name, err := indicator.DisplayName(c)
				if err != nil {
					return nil, err
				}
				seen[name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
