package rules

import (
	"fmt"

	"strategy-studio/internal/domain"
	"strategy-studio/internal/indicator"
)

// ErrorKind classifies a validation failure.
type ErrorKind string

// Validation error kinds.
const (
	KindMissingName       ErrorKind = "MissingName"
	KindMissingRuleSet    ErrorKind = "MissingRuleSet"
	KindEmptyGroup        ErrorKind = "EmptyGroup"
	KindMissingRiskConfig ErrorKind = "MissingRiskConfig"
	KindUnknownIndicator  ErrorKind = "UnknownIndicator"
	KindUnknownLogic      ErrorKind = "UnknownLogic"
	KindMissingValue      ErrorKind = "MissingValue"
	KindBadNumeric        ErrorKind = "BadNumeric"
)

// ValidationError is one field-level validation failure, surfaced inline
// next to the offending field and never fatal.
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field"` // JSON path of the offending field
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Result is the outcome of validating a strategy.
type Result struct {
	OK     bool              `json:"ok"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidateStrategy checks the invariants required before save or code
// generation: a name, all four rule sets present with at least one group,
// no empty groups, every condition resolvable through the indicator
// registry, and a risk management config. The persistence boundary runs the
// same checks again.
func ValidateStrategy(s domain.StrategyConfig) Result {
	var errs []ValidationError

	if s.Name == "" {
		errs = append(errs, ValidationError{
			Kind: KindMissingName, Field: "name", Message: "strategy name is required",
		})
	}

	for _, rs := range s.RuleSets() {
		errs = append(errs, validateRule(rs.Key, rs.Rule)...)
	}

	if s.RiskManagement == nil {
		errs = append(errs, ValidationError{
			Kind: KindMissingRiskConfig, Field: "riskManagement",
			Message: "risk management configuration is required",
		})
	}

	return Result{OK: len(errs) == 0, Errors: errs}
}

// validateRule checks one of the four rule sets.
func validateRule(key string, r domain.PositionRule) []ValidationError {
	if len(r.ConditionGroups) == 0 {
		return []ValidationError{{
			Kind: KindMissingRuleSet, Field: key + ".conditionGroups",
			Message: "rule set requires at least one condition group",
		}}
	}

	var errs []ValidationError
	for i, g := range r.ConditionGroups {
		groupField := fmt.Sprintf("%s.conditionGroups[%d]", key, i)
		if len(g.Conditions) == 0 {
			errs = append(errs, ValidationError{
				Kind: KindEmptyGroup, Field: groupField,
				Message: "condition group must contain at least one condition",
			})
			continue
		}
		for j, c := range g.Conditions {
			errs = append(errs, validateCondition(fmt.Sprintf("%s.conditions[%d]", groupField, j), c)...)
		}
	}
	return errs
}

// validateCondition checks a single condition against the registry.
func validateCondition(field string, c domain.IndicatorCondition) []ValidationError {
	var errs []ValidationError

	if !indicator.Known(c.Indicator) {
		errs = append(errs, ValidationError{
			Kind: KindUnknownIndicator, Field: field + ".indicator",
			Message: fmt.Sprintf("unknown indicator %q", string(c.Indicator)),
		})
	}

	if _, err := indicator.ScriptSymbol(c.Logic); err != nil {
		errs = append(errs, ValidationError{
			Kind: KindUnknownLogic, Field: field + ".logic",
			Message: fmt.Sprintf("unknown comparison operator %q", string(c.Logic)),
		})
	}

	if c.Value == "" {
		errs = append(errs, ValidationError{
			Kind: KindMissingValue, Field: field + ".value",
			Message: "comparison value is required",
		})
	} else if requiresNumericValue(c.Logic) {
		if _, ok := c.Value.Float(); !ok {
			errs = append(errs, ValidationError{
				Kind: KindBadNumeric, Field: field + ".value",
				Message: fmt.Sprintf("comparison value %q is not numeric", string(c.Value)),
			})
		}
	}

	return errs
}

// requiresNumericValue reports whether the operator compares against a
// numeric threshold. Equality tests may compare text, and crossing tests may
// name another series ("signal_line", "sma_50") instead of a constant.
func requiresNumericValue(logic domain.LogicOp) bool {
	switch logic {
	case domain.LogicEquals, domain.LogicNotEquals,
		domain.LogicCrossesAbove, domain.LogicCrossesBelow:
		return false
	}
	return true
}
