package domain

// ConditionParams holds indicator-specific parameters as a tagged union:
// at most one variant is set, and it must match the condition's Indicator
// kind. An all-nil value means "no parameters", which renders as the bare
// indicator name.
type ConditionParams struct {
	RSI        *RSIParams        `json:"rsi,omitempty"`
	MovingAvg  *MovingAvgParams  `json:"movingAverage,omitempty"`
	MACD       *MACDParams       `json:"macd,omitempty"`
	Bollinger  *BollingerParams  `json:"bollinger,omitempty"`
	Stochastic *StochasticParams `json:"stochastic,omitempty"`
	Volume     *VolumeParams     `json:"volume,omitempty"`
	Price      *PriceParams      `json:"price,omitempty"`
}

// IsZero reports whether no variant is set.
func (p ConditionParams) IsZero() bool {
	return p.RSI == nil && p.MovingAvg == nil && p.MACD == nil &&
		p.Bollinger == nil && p.Stochastic == nil && p.Volume == nil && p.Price == nil
}

// RSIParams parameterizes a relative strength index condition.
type RSIParams struct {
	Period NumericInt `json:"period"`
	Source string     `json:"source"` // price field: close, open, high, low
}

// MovingAvgParams parameterizes SMA and EMA conditions.
type MovingAvgParams struct {
	Period NumericInt `json:"period"`
	Source string     `json:"source"`
}

// MACDParams parameterizes a MACD condition.
type MACDParams struct {
	FastPeriod   NumericInt `json:"fastPeriod"`
	SlowPeriod   NumericInt `json:"slowPeriod"`
	SignalPeriod NumericInt `json:"signalPeriod"`
}

// BollingerParams parameterizes a Bollinger Bands condition.
type BollingerParams struct {
	Period NumericInt `json:"period"`
	StdDev Numeric    `json:"stdDev"`
}

// StochasticParams parameterizes a stochastic oscillator condition.
type StochasticParams struct {
	KPeriod NumericInt `json:"kPeriod"`
	DPeriod NumericInt `json:"dPeriod"`
	Smooth  NumericInt `json:"smooth"`
}

// VolumeParams parameterizes a volume condition.
type VolumeParams struct {
	Period NumericInt `json:"period"` // lookback for the volume baseline, 0 = raw volume
}

// PriceParams parameterizes a raw price condition.
type PriceParams struct {
	Source string `json:"source"`
}
