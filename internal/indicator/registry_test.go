package indicator

import (
	"errors"
	"testing"

	"strategy-studio/internal/domain"
)

func TestDisplayName_WithParams(t *testing.T) {
	tests := []struct {
		name string
		cond domain.IndicatorCondition
		want string
	}{
		{
			name: "RSI with period",
			cond: domain.IndicatorCondition{
				Indicator: domain.IndicatorRSI,
				Params:    domain.ConditionParams{RSI: &domain.RSIParams{Period: 14, Source: "close"}},
			},
			want: "RSI(14)",
		},
		{
			name: "SMA with period and source",
			cond: domain.IndicatorCondition{
				Indicator: domain.IndicatorSMA,
				Params:    domain.ConditionParams{MovingAvg: &domain.MovingAvgParams{Period: 20, Source: "close"}},
			},
			want: "SMA(20, close)",
		},
		{
			name: "EMA without source",
			cond: domain.IndicatorCondition{
				Indicator: domain.IndicatorEMA,
				Params:    domain.ConditionParams{MovingAvg: &domain.MovingAvgParams{Period: 50}},
			},
			want: "EMA(50)",
		},
		{
			name: "MACD",
			cond: domain.IndicatorCondition{
				Indicator: domain.IndicatorMACD,
				Params:    domain.ConditionParams{MACD: &domain.MACDParams{FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9}},
			},
			want: "MACD(12, 26, 9)",
		},
		{
			name: "Bollinger with fractional stddev",
			cond: domain.IndicatorCondition{
				Indicator: domain.IndicatorBollinger,
				Params:    domain.ConditionParams{Bollinger: &domain.BollingerParams{Period: 20, StdDev: 2}},
			},
			want: "BB(20, 2)",
		},
		{
			name: "Stochastic",
			cond: domain.IndicatorCondition{
				Indicator: domain.IndicatorStochastic,
				Params:    domain.ConditionParams{Stochastic: &domain.StochasticParams{KPeriod: 14, DPeriod: 3, Smooth: 3}},
			},
			want: "STOCH(14, 3, 3)",
		},
		{
			name: "raw volume",
			cond: domain.IndicatorCondition{
				Indicator: domain.IndicatorVolume,
				Params:    domain.ConditionParams{Volume: &domain.VolumeParams{}},
			},
			want: "Volume",
		},
		{
			name: "price with source",
			cond: domain.IndicatorCondition{
				Indicator: domain.IndicatorPrice,
				Params:    domain.ConditionParams{Price: &domain.PriceParams{Source: "close"}},
			},
			want: "Price(close)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DisplayName(tt.cond)
			if err != nil {
				t.Fatalf("DisplayName failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("DisplayName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayName_BareNameWithoutParams(t *testing.T) {
	for _, kind := range Kinds() {
		cond := domain.IndicatorCondition{Indicator: kind}
		got, err := DisplayName(cond)
		if err != nil {
			t.Fatalf("DisplayName(%s) failed: %v", kind, err)
		}
		if got == "" {
			t.Errorf("DisplayName(%s) returned empty string", kind)
		}
	}
}

func TestDisplayName_UnknownIndicator(t *testing.T) {
	_, err := DisplayName(domain.IndicatorCondition{Indicator: "fibonacci_spiral"})
	var unknownErr *UnknownIndicatorError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownIndicatorError, got %v", err)
	}
}

func TestLogicPhrase_DistinctNonEmpty(t *testing.T) {
	seen := make(map[string]domain.LogicOp)
	for _, op := range AllLogicOps() {
		cond := domain.IndicatorCondition{Logic: op, Value: "30"}
		phrase, err := LogicPhrase(cond)
		if err != nil {
			t.Fatalf("LogicPhrase(%s) failed: %v", op, err)
		}
		if phrase == "" {
			t.Errorf("LogicPhrase(%s) returned empty string", op)
		}
		if prev, dup := seen[phrase]; dup {
			t.Errorf("phrase %q produced by both %s and %s", phrase, prev, op)
		}
		seen[phrase] = op
	}
}

func TestLogicPhrase_UnknownLogic(t *testing.T) {
	_, err := LogicPhrase(domain.IndicatorCondition{Logic: "vibes_are_good", Value: "1"})
	var unknownErr *UnknownLogicError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownLogicError, got %v", err)
	}
}

func TestLogicPhrase_StringAndNumericValueAgree(t *testing.T) {
	asString := domain.IndicatorCondition{Logic: domain.LogicLessThan, Value: "30"}
	asNumeric := domain.IndicatorCondition{Logic: domain.LogicLessThan, Value: "30.0"}

	p1, err := LogicPhrase(asString)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := LogicPhrase(asNumeric)
	if err != nil {
		t.Fatal(err)
	}
	if p1 != p2 {
		t.Errorf("phrases differ for equivalent values: %q vs %q", p1, p2)
	}
}

func TestScriptSymbol_CoversAllOps(t *testing.T) {
	seen := make(map[string]bool)
	for _, op := range AllLogicOps() {
		sym, err := ScriptSymbol(op)
		if err != nil {
			t.Fatalf("ScriptSymbol(%s) failed: %v", op, err)
		}
		if sym == "" || seen[sym] {
			t.Errorf("ScriptSymbol(%s) = %q (empty or duplicate)", op, sym)
		}
		seen[sym] = true
	}

	if _, err := ScriptSymbol("teleports_through"); err == nil {
		t.Error("expected error for unknown operator")
	}
}

func TestVarName(t *testing.T) {
	cond := domain.IndicatorCondition{
		Indicator: domain.IndicatorMACD,
		Params:    domain.ConditionParams{MACD: &domain.MACDParams{FastPeriod: 12, SlowPeriod: 26, SignalPeriod: 9}},
	}
	got, err := VarName(cond)
	if err != nil {
		t.Fatal(err)
	}
	if got != "macd_12_26_9" {
		t.Errorf("VarName = %q, want macd_12_26_9", got)
	}
}

func TestDefaultParams_AllKinds(t *testing.T) {
	for _, kind := range Kinds() {
		params, err := DefaultParams(kind)
		if err != nil {
			t.Fatalf("DefaultParams(%s) failed: %v", kind, err)
		}
		if params.IsZero() {
			t.Errorf("DefaultParams(%s) returned empty params", kind)
		}
	}

	if _, err := DefaultParams("astrology"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
