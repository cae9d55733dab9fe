package domain

// clonePtr copies a pointer field so the clone does not alias the original.
func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a deep copy with no shared slices or pointers.
func (p ConditionParams) Clone() ConditionParams {
	p.RSI = clonePtr(p.RSI)
	p.MovingAvg = clonePtr(p.MovingAvg)
	p.MACD = clonePtr(p.MACD)
	p.Bollinger = clonePtr(p.Bollinger)
	p.Stochastic = clonePtr(p.Stochastic)
	p.Volume = clonePtr(p.Volume)
	p.Price = clonePtr(p.Price)
	return p
}

// Clone returns a deep copy. Nil group and condition slices stay nil so the
// missing-versus-empty distinction the validator relies on survives copying.
func (r PositionRule) Clone() PositionRule {
	if r.ConditionGroups == nil {
		return r
	}
	groups := make([]ConditionGroup, len(r.ConditionGroups))
	for i, g := range r.ConditionGroups {
		ng := g
		if g.Conditions != nil {
			conds := make([]IndicatorCondition, len(g.Conditions))
			for j, c := range g.Conditions {
				c.Params = c.Params.Clone()
				conds[j] = c
			}
			ng.Conditions = conds
		}
		groups[i] = ng
	}
	r.ConditionGroups = groups
	return r
}

// Clone returns a deep copy, or nil for nil.
func (r *RiskManagementConfig) Clone() *RiskManagementConfig {
	if r == nil {
		return nil
	}
	out := *r
	out.StopLoss = append([]RiskRule(nil), r.StopLoss...)
	out.TakeProfit = append([]RiskRule(nil), r.TakeProfit...)
	out.TrailingStop = append([]RiskRule(nil), r.TrailingStop...)
	if r.PositionSizing != nil {
		out.PositionSizing = make([]PositionSizingRule, len(r.PositionSizing))
		for i, ps := range r.PositionSizing {
			ps.EquityPercentage = clonePtr(ps.EquityPercentage)
			ps.MaxRisk = clonePtr(ps.MaxRisk)
			out.PositionSizing[i] = ps
		}
	}
	out.MaxDailyLoss = clonePtr(r.MaxDailyLoss)
	out.MaxConsecutiveLosses = clonePtr(r.MaxConsecutiveLosses)
	out.ProfitTarget = clonePtr(r.ProfitTarget)
	out.RiskRewardMinimum = clonePtr(r.RiskRewardMinimum)
	out.Pyramiding = clonePtr(r.Pyramiding)
	out.LeverageRatio = clonePtr(r.LeverageRatio)
	return &out
}

// Clone returns a deep copy of the config.
func (s StrategyConfig) Clone() StrategyConfig {
	s.EntryLong = s.EntryLong.Clone()
	s.EntryShort = s.EntryShort.Clone()
	s.ExitLong = s.ExitLong.Clone()
	s.ExitShort = s.ExitShort.Clone()
	s.RiskManagement = s.RiskManagement.Clone()
	return s
}

// Clone returns a deep copy of the record.
func (r *StrategyRecord) Clone() *StrategyRecord {
	out := *r
	out.StrategyConfig = r.StrategyConfig.Clone()
	return &out
}
