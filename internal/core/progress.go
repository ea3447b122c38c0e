package core

// Progress holds derived percentage/remaining figures for a budget or goal.
//
// Percentage is always within [0, 100]. Remaining is the data-level figure
// and may be negative for overspent budgets; ChartRemaining is floored at
// zero because a chart must never receive a negative slice.
type Progress struct {
	Percentage     float64
	Remaining      Money
	ChartRemaining Money
}

// Progress derives spent-vs-ceiling figures for the budget. A zero or
// missing ceiling yields zero percent.
func (b Budget) Progress() Progress {
	p := Progress{Remaining: b.Amount.Sub(b.SpentAmount)}
	if b.Amount.Cents > 0 {
		p.Percentage = clampPercent(float64(b.SpentAmount.Cents) / float64(b.Amount.Cents) * 100)
	}
	if p.Remaining.Cents > 0 {
		p.ChartRemaining = p.Remaining
	}
	return p
}

// Progress derives contributed-vs-target figures for the goal. Remaining is
// floored at zero at the data level; over-funded goals clamp to 100 percent.
func (g Goal) Progress() Progress {
	var p Progress
	if g.TargetAmount.Cents > 0 {
		p.Percentage = clampPercent(float64(g.AmountContributed.Cents) / float64(g.TargetAmount.Cents) * 100)
		if rem := g.TargetAmount.Sub(g.AmountContributed); rem.Cents > 0 {
			p.Remaining = rem
		}
	}
	p.ChartRemaining = p.Remaining
	return p
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
