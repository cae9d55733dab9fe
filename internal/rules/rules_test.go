package rules

import (
	"encoding/json"
	"reflect"
	"testing"

	"strategy-studio/internal/domain"
)

func TestDefaultCondition_RSI(t *testing.T) {
	cond, err := DefaultCondition(domain.IndicatorRSI)
	if err != nil {
		t.Fatalf("DefaultCondition failed: %v", err)
	}

	if cond.ID == "" {
		t.Error("expected generated condition id")
	}
	if cond.Logic != domain.LogicLessThan {
		t.Errorf("Logic = %s, want less_than", cond.Logic)
	}
	if cond.Value != "30" {
		t.Errorf("Value = %q, want 30", cond.Value)
	}
	if cond.Timeframe != "1d" {
		t.Errorf("Timeframe = %q, want 1d", cond.Timeframe)
	}
	if cond.Params.RSI == nil || cond.Params.RSI.Period != 14 || cond.Params.RSI.Source != "close" {
		t.Errorf("Params.RSI = %+v, want 14-period close", cond.Params.RSI)
	}
}

func TestDefaultCondition_UnknownKind(t *testing.T) {
	if _, err := DefaultCondition("tea_leaves"); err == nil {
		t.Error("expected error for unknown indicator kind")
	}
}

func TestDefaultStrategy_PassesValidation(t *testing.T) {
	s := DefaultStrategy("Starter")

	result := ValidateStrategy(s)
	if !result.OK {
		t.Fatalf("default strategy failed validation: %+v", result.Errors)
	}

	for _, rs := range s.RuleSets() {
		if len(rs.Rule.ConditionGroups) != 1 {
			t.Errorf("%s: got %d groups, want 1", rs.Key, len(rs.Rule.ConditionGroups))
		}
	}
	if s.RiskManagement.RiskPerTrade() != domain.DefaultRiskPerTrade {
		t.Errorf("RiskPerTrade = %v, want %v", s.RiskManagement.RiskPerTrade(), domain.DefaultRiskPerTrade)
	}
}

func TestDefaultStrategy_IDsNeverReused(t *testing.T) {
	a := DefaultStrategy("A")
	b := DefaultStrategy("B")

	if a.EntryLong.ConditionGroups[0].Conditions[0].ID == b.EntryLong.ConditionGroups[0].Conditions[0].ID {
		t.Error("two default strategies share a condition id")
	}
}

func TestNormalizeCondition_ValueCoercion(t *testing.T) {
	tests := []struct {
		name string
		in   domain.ConditionValue
		want domain.ConditionValue
	}{
		{"numeric string unchanged", "30", "30"},
		{"float canonicalized", "30.0", "30"},
		{"whitespace trimmed", "  70 ", "70"},
		{"missing becomes empty string", "", ""},
		{"text left as text", "signal_line", "signal_line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCondition(domain.IndicatorCondition{Value: tt.in})
			if got.Value != tt.want {
				t.Errorf("Value = %q, want %q", got.Value, tt.want)
			}
		})
	}
}

func TestNormalizeCondition_FillsDefaults(t *testing.T) {
	got := NormalizeCondition(domain.IndicatorCondition{Indicator: domain.IndicatorRSI, Value: "30"})
	if got.Parameter != "value" {
		t.Errorf("Parameter = %q, want value", got.Parameter)
	}
	if got.Timeframe != "1d" {
		t.Errorf("Timeframe = %q, want 1d", got.Timeframe)
	}
}

func TestNormalizeCondition_ParamsUntouched(t *testing.T) {
	params := domain.ConditionParams{RSI: &domain.RSIParams{Period: 7, Source: "open"}}
	got := NormalizeCondition(domain.IndicatorCondition{Params: params, Value: "1"})
	if !reflect.DeepEqual(got.Params, params) {
		t.Errorf("params changed during normalization: %+v", got.Params)
	}
}

func TestConditionValue_JSONNumberAndString(t *testing.T) {
	// The editor may send the threshold as a number or as text; both must
	// decode to the same canonical value.
	var fromNumber, fromString domain.IndicatorCondition
	if err := json.Unmarshal([]byte(`{"value": 30}`), &fromNumber); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"value": "30"}`), &fromString); err != nil {
		t.Fatal(err)
	}
	if fromNumber.Value != fromString.Value {
		t.Errorf("values differ: %q vs %q", fromNumber.Value, fromString.Value)
	}

	var fromNull domain.IndicatorCondition
	if err := json.Unmarshal([]byte(`{"value": null}`), &fromNull); err != nil {
		t.Fatal(err)
	}
	if fromNull.Value != "" {
		t.Errorf("null value decoded to %q, want empty string", fromNull.Value)
	}
}

func TestValidateStrategy_MissingRuleSets(t *testing.T) {
	for _, key := range []string{"entryLong", "exitLong", "entryShort", "exitShort"} {
		t.Run(key, func(t *testing.T) {
			s := DefaultStrategy("Incomplete")
			switch key {
			case "entryLong":
				s.EntryLong.ConditionGroups = nil
			case "exitLong":
				s.ExitLong.ConditionGroups = nil
			case "entryShort":
				s.EntryShort.ConditionGroups = nil
			case "exitShort":
				s.ExitShort.ConditionGroups = nil
			}

			result := ValidateStrategy(s)
			if result.OK {
				t.Fatal("expected validation failure")
			}
			found := false
			for _, e := range result.Errors {
				if e.Kind == KindMissingRuleSet {
					found = true
				}
			}
			if !found {
				t.Errorf("expected MissingRuleSet error, got %+v", result.Errors)
			}
		})
	}
}

func TestValidateStrategy_EmptyGroupList(t *testing.T) {
	s := DefaultStrategy("Empty")
	s.EntryLong.ConditionGroups = []domain.ConditionGroup{}

	result := ValidateStrategy(s)
	if result.OK {
		t.Fatal("expected validation failure for empty group list")
	}
	if result.Errors[0].Kind != KindMissingRuleSet {
		t.Errorf("Kind = %s, want MissingRuleSet", result.Errors[0].Kind)
	}
}

func TestValidateStrategy_EmptyGroup(t *testing.T) {
	s := DefaultStrategy("EmptyGroup")
	s.EntryLong.ConditionGroups[0].Conditions = nil

	result := ValidateStrategy(s)
	if result.OK {
		t.Fatal("expected validation failure for empty group")
	}
	if result.Errors[0].Kind != KindEmptyGroup {
		t.Errorf("Kind = %s, want EmptyGroup", result.Errors[0].Kind)
	}
}

func TestValidateStrategy_MissingRiskConfig(t *testing.T) {
	s := DefaultStrategy("NoRisk")
	s.RiskManagement = nil

	result := ValidateStrategy(s)
	if result.OK {
		t.Fatal("expected validation failure for missing risk config")
	}
	found := false
	for _, e := range result.Errors {
		if e.Kind == KindMissingRiskConfig {
			found = true
		}
	}
	if !found {
		t.Errorf("expected MissingRiskConfig error, got %+v", result.Errors)
	}
}

func TestValidateStrategy_UnknownIndicatorAndLogic(t *testing.T) {
	s := DefaultStrategy("Corrupt")
	s.EntryLong.ConditionGroups[0].Conditions[0].Indicator = "moon_phase"
	s.EntryLong.ConditionGroups[0].Conditions[0].Logic = "feels_right"

	result := ValidateStrategy(s)
	if result.OK {
		t.Fatal("expected validation failure")
	}

	kinds := make(map[ErrorKind]bool)
	for _, e := range result.Errors {
		kinds[e.Kind] = true
	}
	if !kinds[KindUnknownIndicator] || !kinds[KindUnknownLogic] {
		t.Errorf("expected UnknownIndicator and UnknownLogic, got %+v", result.Errors)
	}
}

func TestValidateStrategy_NonNumericThreshold(t *testing.T) {
	s := DefaultStrategy("BadValue")
	s.EntryLong.ConditionGroups[0].Conditions[0].Value = "lots"

	result := ValidateStrategy(s)
	if result.OK {
		t.Fatal("expected validation failure")
	}
	if result.Errors[0].Kind != KindBadNumeric {
		t.Errorf("Kind = %s, want BadNumeric", result.Errors[0].Kind)
	}

	// Equality comparisons may compare text.
	s.EntryLong.ConditionGroups[0].Conditions[0].Logic = domain.LogicEquals
	if result := ValidateStrategy(s); !result.OK {
		t.Errorf("text value should be allowed for equals: %+v", result.Errors)
	}

	// Crossing comparisons may name another series.
	s.EntryLong.ConditionGroups[0].Conditions[0].Logic = domain.LogicCrossesAbove
	s.EntryLong.ConditionGroups[0].Conditions[0].Value = "signal_line"
	if result := ValidateStrategy(s); !result.OK {
		t.Errorf("series name should be allowed for crosses: %+v", result.Errors)
	}
}

func TestCollectIndicators_OrderIndependent(t *testing.T) {
	s := DefaultStrategy("Multi")
	sma, err := DefaultCondition(domain.IndicatorSMA)
	if err != nil {
		t.Fatal(err)
	}
	vol, err := DefaultCondition(domain.IndicatorVolume)
	if err != nil {
		t.Fatal(err)
	}
	s.EntryLong.ConditionGroups[0].Conditions = append(s.EntryLong.ConditionGroups[0].Conditions, sma, vol)

	before := CollectIndicators(s)

	// Permute condition order within the group.
	conds := s.EntryLong.ConditionGroups[0].Conditions
	conds[0], conds[2] = conds[2], conds[0]
	after := CollectIndicators(s)

	if !reflect.DeepEqual(before, after) {
		t.Errorf("set changed under permutation: %v vs %v", before, after)
	}

	want := map[domain.IndicatorKind]struct{}{
		domain.IndicatorRSI:    {},
		domain.IndicatorSMA:    {},
		domain.IndicatorVolume: {},
	}
	if !reflect.DeepEqual(after, want) {
		t.Errorf("set = %v, want %v", after, want)
	}
}

func TestCollectIndicatorNames_DistinctParamsDistinctEntries(t *testing.T) {
	s := DefaultStrategy("TwoRSI")
	fast, err := DefaultCondition(domain.IndicatorRSI)
	if err != nil {
		t.Fatal(err)
	}
	fast.Params.RSI.Period = 7
	s.EntryLong.ConditionGroups[0].Conditions = append(s.EntryLong.ConditionGroups[0].Conditions, fast)

	names, err := CollectIndicatorNames(s)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"RSI(14)", "RSI(7)"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestConditionDecode_NumericStringParams(t *testing.T) {
	payload := `{
		"id": "c1",
		"indicator": "rsi",
		"parameter": "value",
		"logic": "less_than",
		"value": "30",
		"timeframe": "1d",
		"params": {"rsi": {"period": "14", "source": "close"}}
	}`

	var cond domain.IndicatorCondition
	if err := json.Unmarshal([]byte(payload), &cond); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cond.Params.RSI == nil || cond.Params.RSI.Period != 14 {
		t.Errorf("Params.RSI = %+v, want period 14", cond.Params.RSI)
	}

	// Bollinger stddev arrives as fractional text.
	payload = `{"indicator": "bollinger", "params": {"bollinger": {"period": "20", "stdDev": "2.5"}}}`
	cond = domain.IndicatorCondition{}
	if err := json.Unmarshal([]byte(payload), &cond); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cond.Params.Bollinger == nil || cond.Params.Bollinger.Period != 20 || cond.Params.Bollinger.StdDev != 2.5 {
		t.Errorf("Params.Bollinger = %+v, want period 20 stddev 2.5", cond.Params.Bollinger)
	}
}

func TestConditionDecode_MalformedParamDropsField(t *testing.T) {
	payload := `{"indicator": "rsi", "params": {"rsi": {"period": "lots", "source": "close"}}}`

	var cond domain.IndicatorCondition
	if err := json.Unmarshal([]byte(payload), &cond); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cond.Params.RSI == nil {
		t.Fatal("expected rsi params variant")
	}
	if cond.Params.RSI.Period != 0 {
		t.Errorf("Period = %d, want 0 (unparseable text dropped)", cond.Params.RSI.Period)
	}
	if cond.Params.RSI.Source != "close" {
		t.Errorf("Source = %q, want close", cond.Params.RSI.Source)
	}
}
