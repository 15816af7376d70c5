package scorers

import (
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }

func pop(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

func TestPercentileRankBounds(t *testing.T) {
	population := pop(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	for v := 0.0; v <= 11; v += 0.5 {
		got := PercentileRank(fp(v), population, false)
		if got == nil {
			t.Fatalf("PercentileRank(%v) = nil, want a value", v)
		}
		if *got < 0 || *got > 100 {
			t.Errorf("PercentileRank(%v) = %v, want within [0, 100]", v, *got)
		}
	}
}

func TestPercentileRankDeterminism(t *testing.T) {
	population := pop(3, 1, 4, 1, 5, 9, 2, 6)

	first := PercentileRank(fp(4), population, false)
	second := PercentileRank(fp(4), population, false)

	if first == nil || second == nil || *first != *second {
		t.Errorf("identical arguments gave %v and %v, want identical results", first, second)
	}
}

func TestPercentileRank(t *testing.T) {
	tests := []struct {
		name          string
		value         *float64
		population    []*float64
		lowerIsBetter bool
		want          *float64
	}{
		{
			name:       "median of distinct values, higher is better",
			value:      fp(3),
			population: pop(1, 2, 3, 4, 5),
			// 2 worse + 1 equal/2 = 2.5 of 5
			want: fp(50),
		},
		{
			name:          "median of distinct values, lower is better",
			value:         fp(3),
			population:    pop(1, 2, 3, 4, 5),
			lowerIsBetter: true,
			want:          fp(50),
		},
		{
			name:       "best value, higher is better",
			value:      fp(10),
			population: pop(1, 2, 3, 10),
			// 3 worse + 1 equal/2 = 3.5 of 4
			want: fp(87.5),
		},
		{
			name:          "lowest P/E scores highest when lower is better",
			value:         fp(8),
			population:    pop(8, 12, 18, 25),
			lowerIsBetter: true,
			want:          fp(87.5),
		},
		{
			name:       "nil value",
			value:      nil,
			population: pop(1, 2, 3),
			want:       nil,
		},
		{
			name:       "empty population",
			value:      fp(1),
			population: nil,
			want:       nil,
		},
		{
			name:       "population of only nils",
			value:      fp(1),
			population: []*float64{nil, nil, nil},
			want:       nil,
		},
		{
			name:       "nils filtered before ranking",
			value:      fp(3),
			population: []*float64{fp(1), nil, fp(2), nil, fp(4)},
			// 2 worse of 3
			want: fp(200.0 / 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentileRank(tt.value, tt.population, tt.lowerIsBetter)

			switch {
			case tt.want == nil && got != nil:
				t.Errorf("PercentileRank() = %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("PercentileRank() = nil, want %v", *tt.want)
			case tt.want != nil && math.Abs(*got-*tt.want) > 1e-9:
				t.Errorf("PercentileRank() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestPercentileRankTieLaw(t *testing.T) {
	// Three duplicates of the value under test plus one better and one worse:
	// duplicates count as neither better nor worse, so the rank sits exactly
	// between the neighbors regardless of how many duplicates there are.
	population := pop(5, 5, 5, 1, 9)

	got := PercentileRank(fp(5), population, false)
	if got == nil {
		t.Fatal("PercentileRank() = nil, want a value")
	}

	// 1 worse + 3 equal/2 = 2.5 of 5
	if math.Abs(*got-50) > 1e-9 {
		t.Errorf("PercentileRank() = %v, want 50", *got)
	}
}

func TestPercentileRankDirectionLaw(t *testing.T) {
	population := pop(1, 2, 3, 4, 5, 6)

	a := PercentileRank(fp(2), population, false)
	b := PercentileRank(fp(5), population, false)
	if *a >= *b {
		t.Errorf("higher-is-better: rank(2)=%v should be below rank(5)=%v", *a, *b)
	}

	aInv := PercentileRank(fp(2), population, true)
	bInv := PercentileRank(fp(5), population, true)
	if *aInv <= *bInv {
		t.Errorf("lower-is-better: rank(2)=%v should be above rank(5)=%v", *aInv, *bInv)
	}
}
