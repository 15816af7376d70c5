package formulas

import (
	"math"
	"testing"
)

func TestCalculateReturns(t *testing.T) {
	returns := CalculateReturns([]float64{100, 110, 99})
	if len(returns) != 2 {
		t.Fatalf("len(returns) = %d, want 2", len(returns))
	}
	if math.Abs(returns[0]-0.10) > 1e-9 {
		t.Errorf("returns[0] = %v, want 0.10", returns[0])
	}
	if math.Abs(returns[1]-(-0.10)) > 1e-9 {
		t.Errorf("returns[1] = %v, want -0.10", returns[1])
	}

	if got := CalculateReturns([]float64{100}); len(got) != 0 {
		t.Errorf("single price returned %d returns, want 0", len(got))
	}
}

func TestCalculateVolatility(t *testing.T) {
	flat := CalculateVolatility([]float64{100, 100, 100, 100})
	if flat == nil {
		t.Fatal("CalculateVolatility() = nil, want 0 for a flat series")
	}
	if *flat != 0 {
		t.Errorf("flat series volatility = %v, want 0", *flat)
	}

	choppy := CalculateVolatility([]float64{100, 110, 95, 108, 90})
	if choppy == nil || *choppy <= 0 {
		t.Errorf("choppy series volatility = %v, want positive", choppy)
	}

	if got := CalculateVolatility([]float64{100}); got != nil {
		t.Errorf("CalculateVolatility() = %v, want nil for one price", *got)
	}
}

func TestCalculateVolatilityWindow(t *testing.T) {
	prices := make([]float64, 100)
	for i := range prices {
		prices[i] = 100 + float64(i%5)
	}

	if got := CalculateVolatilityWindow(prices, 30); got == nil {
		t.Error("CalculateVolatilityWindow() = nil, want a value for 100 prices over a 30-day window")
	}
	if got := CalculateVolatilityWindow(prices[:10], 30); got != nil {
		t.Errorf("CalculateVolatilityWindow() = %v, want nil when history is shorter than the window", *got)
	}
}

func TestAnnualizedVolatilityScaling(t *testing.T) {
	daily := []float64{0.01, -0.01, 0.02, -0.02, 0.01}
	want := StdDev(daily) * math.Sqrt(252)

	if got := AnnualizedVolatility(daily); math.Abs(got-want) > 1e-12 {
		t.Errorf("AnnualizedVolatility() = %v, want %v", got, want)
	}
	if got := AnnualizedVolatility(nil); got != 0 {
		t.Errorf("AnnualizedVolatility(nil) = %v, want 0", got)
	}
}

func TestRollingHigh(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		period int
		want   *float64
	}{
		{"high inside the window", []float64{5, 9, 7, 8}, 3, ref(9)},
		{"high outside the window", []float64{20, 5, 7, 8}, 3, ref(8)},
		{"series shorter than period", []float64{5, 12, 7}, 252, ref(12)},
		{"single price", []float64{42}, 252, ref(42)},
		{"empty series", nil, 252, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RollingHigh(tt.closes, tt.period)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("RollingHigh() = %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("RollingHigh() = nil, want %v", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("RollingHigh() = %v, want %v", *got, *tt.want)
			}
		})
	}
}
