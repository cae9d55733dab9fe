// Package codegen renders a strategy's rule tree into human-readable text.
// Both generators are pure, read-only walks over the same tree and must stay
// semantically equivalent: one rendered line per condition group, groups
// combined with OR, conditions within a group combined with AND.
//
// Callers are expected to validate the strategy first. A missing rule set
// still renders as an empty section, but an unrecognized indicator or logic
// code aborts rendering with an error, since that indicates registry or
// data corruption rather than missing content.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/indicator"
	"strategy-studio/internal/rules"
)

// formatFloat renders a float without trailing zeros ("2", "2.5").
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// GeneratePseudocode renders the strategy as a fixed-structure pseudocode
// block: header, risk summary, the four rule sets, and the indicators used.
func GeneratePseudocode(s domain.StrategyConfig) (string, error) {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("STRATEGY: %s\n", s.Name))
	if s.Description != "" {
		sb.WriteString(s.Description + "\n")
	}
	sb.WriteString("\n")

	// Risk summary
	sb.WriteString("RISK MANAGEMENT:\n")
	sb.WriteString(fmt.Sprintf("- Risk per trade: %s%%\n", formatFloat(s.RiskManagement.RiskPerTrade())))
	if rm := s.RiskManagement; rm != nil {
		sb.WriteString(fmt.Sprintf("- Max open positions: %d\n", rm.MaxOpenPositions))
		sb.WriteString(fmt.Sprintf("- Max drawdown: %s%%\n", formatFloat(rm.MaxDrawdown.Float64())))
	}
	sb.WriteString("\n")

	// Rule sets, in canonical order. Group and condition ordering follows
	// the source arrays: ordering is part of the user's mental model of
	// rule priority, so no sorting here.
	for _, rs := range s.RuleSets() {
		sb.WriteString(rs.Label + ":\n")
		for i, g := range rs.Rule.ConditionGroups {
			if i > 0 {
				sb.WriteString("OR\n")
			}
			line, err := pseudocodeGroupLine(g)
			if err != nil {
				return "", fmt.Errorf("render %s group %d: %w", rs.Key, i, err)
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	// Indicators used
	names, err := rules.CollectIndicatorNames(s)
	if err != nil {
		return "", fmt.Errorf("collect indicators: %w", err)
	}
	sb.WriteString("Indicators Used:\n")
	for _, name := range names {
		sb.WriteString("- " + name + "\n")
	}

	return sb.String(), nil
}

// pseudocodeGroupLine renders one condition group as a single IF line with
// conditions joined by literal " AND ".
func pseudocodeGroupLine(g domain.ConditionGroup) (string, error) {
	parts := make([]string, 0, len(g.Conditions))
	for _, c := range g.Conditions {
		name, err := indicator.DisplayName(c)
		if err != nil {
			return "", err
		}
		phrase, err := indicator.LogicPhrase(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, name+" "+phrase)
	}
	return "IF " + strings.Join(parts, " AND "), nil
}
