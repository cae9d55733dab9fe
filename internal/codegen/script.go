package codegen

import (
	"fmt"
	"sort"
	"strings"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/indicator"
)

// Script directive keywords for the four rule sets, in canonical order.
var scriptDirectives = map[string]string{
	"entryLong":  "ENTER LONG WHEN",
	"exitLong":   "EXIT LONG WHEN",
	"entryShort": "ENTER SHORT WHEN",
	"exitShort":  "EXIT SHORT WHEN",
}

// GenerateScript renders the strategy in a script-like syntax: assignment
// style indicator declarations, ENTER/EXIT directives with one parenthesized
// group per line, and SET_* directives for the risk settings. The walk is
// semantically identical to GeneratePseudocode, only the literal syntax
// differs.
func GenerateScript(s domain.StrategyConfig) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("// Strategy: %s\n", s.Name))
	if s.Description != "" {
		sb.WriteString(fmt.Sprintf("// %s\n", s.Description))
	}
	sb.WriteString("\n")

	// Indicator declarations: one per unique variable, sorted for
	// deterministic output.
	decls, err := scriptDeclarations(s)
	if err != nil {
		return "", err
	}
	for _, d := range decls {
		sb.WriteString(d + "\n")
	}
	if len(decls) > 0 {
		sb.WriteString("\n")
	}

	// Entry/exit directives, one parenthesized line per condition group,
	// groups after the first prefixed with OR. Ordering follows the source
	// arrays, matching the pseudocode generator.
	for _, rs := range s.RuleSets() {
		sb.WriteString(scriptDirectives[rs.Key] + "\n")
		for i, g := range rs.Rule.ConditionGroups {
			line, err := scriptGroupLine(g)
			if err != nil {
				return "", fmt.Errorf("render %s group %d: %w", rs.Key, i, err)
			}
			if i > 0 {
				sb.WriteString("    OR " + line + "\n")
			} else {
				sb.WriteString("    " + line + "\n")
			}
		}
		sb.WriteString("\n")
	}

	// Risk directives
	writeRiskDirectives(&sb, s.RiskManagement)

	return sb.String(), nil
}

// scriptDeclarations renders one "var = INDICATOR(...)" line per unique
// indicator variable used anywhere in the strategy, sorted by variable name.
func scriptDeclarations(s domain.StrategyConfig) ([]string, error) {
	byVar := make(map[string]string)
	for _, rs := range s.RuleSets() {
		for _, g := range rs.Rule.ConditionGroups {
			for _, c := range g.Conditions {
				varName, err := indicator.VarName(c)
				if err != nil {
					return nil, err
				}
				if _, seen := byVar[varName]; seen {
					continue
				}
				decl, err := indicator.Declaration(c)
				if err != nil {
					return nil, err
				}
				byVar[varName] = decl
			}
		}
	}

	vars := make([]string, 0, len(byVar))
	for v := range byVar {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	lines := make([]string, len(vars))
	for i, v := range vars {
		lines[i] = fmt.Sprintf("%s = %s", v, byVar[v])
	}
	return lines, nil
}

// scriptGroupLine renders one condition group as a parenthesized AND chain.
func scriptGroupLine(g domain.ConditionGroup) (string, error) {
	parts := make([]string, 0, len(g.Conditions))
	for _, c := range g.Conditions {
		operand, err := scriptOperand(c)
		if err != nil {
			return "", err
		}
		symbol, err := indicator.ScriptSymbol(c.Logic)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s %s %s", operand, symbol, string(c.Value.Canonical())))
	}
	return "(" + strings.Join(parts, " AND ") + ")", nil
}

// scriptOperand renders the left-hand side of a comparison: the indicator
// variable, suffixed with the output series when it is not the default.
func scriptOperand(c domain.IndicatorCondition) (string, error) {
	varName, err := indicator.VarName(c)
	if err != nil {
		return "", err
	}
	if c.Parameter != "" && c.Parameter != "value" {
		return varName + "." + c.Parameter, nil
	}
	return varName, nil
}

// writeRiskDirectives emits SET_* lines for every enabled risk rule.
func writeRiskDirectives(sb *strings.Builder, rm *domain.RiskManagementConfig) {
	if rm == nil {
		return
	}

	for _, r := range rm.StopLoss {
		if r.Enabled {
			sb.WriteString(fmt.Sprintf("SET_STOP_LOSS(%s, %s)\n", r.Type, formatFloat(r.Value.Float64())))
		}
	}
	for _, r := range rm.TakeProfit {
		if r.Enabled {
			sb.WriteString(fmt.Sprintf("SET_TAKE_PROFIT(%s, %s)\n", r.Type, formatFloat(r.Value.Float64())))
		}
	}
	for _, r := range rm.TrailingStop {
		if r.Enabled {
			sb.WriteString(fmt.Sprintf("SET_TRAILING_STOP(%s, %s)\n", r.Type, formatFloat(r.Value.Float64())))
		}
	}
	for _, r := range rm.PositionSizing {
		if r.Enabled {
			sb.WriteString(fmt.Sprintf("SET_POSITION_SIZE(%s, %s)\n", r.Type, formatFloat(r.Value.Float64())))
		}
	}
	sb.WriteString(fmt.Sprintf("SET_MAX_OPEN_POSITIONS(%d)\n", rm.MaxOpenPositions))
	sb.WriteString(fmt.Sprintf("SET_MAX_DRAWDOWN(%s)\n", formatFloat(rm.MaxDrawdown.Float64())))
}
