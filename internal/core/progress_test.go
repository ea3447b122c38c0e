package core

import "testing"

func TestBudgetProgress(t *testing.T) {
	cases := []struct {
		name           string
		amount         int64
		spent          int64
		percentage     float64
		remaining      int64
		chartRemaining int64
	}{
		{"half spent", 100000, 50000, 50, 50000, 50000},
		{"untouched", 100000, 0, 0, 100000, 100000},
		{"exactly spent", 100000, 100000, 100, 0, 0},
		{"over budget clamps", 100000, 120000, 100, -20000, 0},
		{"zero ceiling guarded", 0, 5000, 0, -5000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Budget{Amount: Money{Cents: tc.amount}, SpentAmount: Money{Cents: tc.spent}}
			p := b.Progress()
			if p.Percentage != tc.percentage {
				t.Fatalf("percentage expected %v, got %v", tc.percentage, p.Percentage)
			}
			if p.Remaining.Cents != tc.remaining {
				t.Fatalf("remaining expected %d, got %d", tc.remaining, p.Remaining.Cents)
			}
			if p.ChartRemaining.Cents != tc.chartRemaining {
				t.Fatalf("chart remaining expected %d, got %d", tc.chartRemaining, p.ChartRemaining.Cents)
			}
		})
	}
}

func TestGoalProgress(t *testing.T) {
	cases := []struct {
		name        string
		target      int64
		contributed int64
		percentage  float64
		remaining   int64
	}{
		{"quarter funded", 100000, 25000, 25, 75000},
		{"fully funded", 100000, 100000, 100, 0},
		{"over funded clamps", 100000, 150000, 100, 0},
		{"zero target guarded", 0, 5000, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := Goal{TargetAmount: Money{Cents: tc.target}, AmountContributed: Money{Cents: tc.contributed}}
			p := g.Progress()
			if p.Percentage != tc.percentage {
				t.Fatalf("percentage expected %v, got %v", tc.percentage, p.Percentage)
			}
			if p.Remaining.Cents != tc.remaining {
				t.Fatalf("remaining expected %d, got %d", tc.remaining, p.Remaining.Cents)
			}
			if p.ChartRemaining.Cents != p.Remaining.Cents {
				t.Fatalf("goal chart remaining should equal remaining")
			}
		})
	}
}

func TestProgressBounds(t *testing.T) {
	// Percentage must stay within [0, 100] regardless of input.
	inputs := []Budget{
		{Amount: Money{Cents: 1}, SpentAmount: Money{Cents: 1 << 40}},
		{Amount: Money{Cents: 1 << 40}, SpentAmount: Money{Cents: 0}},
		{Amount: Money{Cents: 0}, SpentAmount: Money{Cents: 0}},
	}
	for _, b := range inputs {
		p := b.Progress()
		if p.Percentage < 0 || p.Percentage > 100 {
			t.Fatalf("percentage out of bounds: %v", p.Percentage)
		}
		if p.ChartRemaining.Cents < 0 {
			t.Fatalf("chart remaining must never be negative: %d", p.ChartRemaining.Cents)
		}
	}
}
