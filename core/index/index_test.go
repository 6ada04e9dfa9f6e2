package index

import (
	"testing"

	"github.com/shopspring/decimal"

	"traceblame/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Index
		wantErr bool
	}{
		{"shapley", Shapley, false},
		{"SHAPLEY", Shapley, false},
		{"  banzhaf ", Banzhaf, false},
		{"custom", Custom, false},
		{"nucleolus", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tt.in)
			} else if !errors.IsType(err, errors.TypeNotSupported) {
				t.Errorf("Parse(%q): expected NOT_SUPPORTED, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBinomial(t *testing.T) {
	tests := []struct {
		n, k int
		want int64
	}{
		{0, 0, 1},
		{1, 0, 1},
		{1, 1, 1},
		{5, 2, 10},
		{6, 3, 20},
		{10, 5, 252},
		{3, 5, 0},
	}

	for _, tt := range tests {
		got, err := Binomial(tt.n, tt.k)
		if err != nil {
			t.Fatalf("Binomial(%d, %d): %v", tt.n, tt.k, err)
		}
		if got != tt.want {
			t.Errorf("Binomial(%d, %d) = %d, want %d", tt.n, tt.k, got, tt.want)
		}
	}

	if _, err := Binomial(-1, 0); err == nil {
		t.Error("negative n must error")
	}
}

// TestShapleyWeightsSumToOne verifies the standard identity
// sum over c of C(n-1, c) * p_c = 1 for n = 1..6.
func TestShapleyWeightsSumToOne(t *testing.T) {
	tolerance := decimal.New(1, -12)

	for n := 1; n <= 6; n++ {
		sum := decimal.Zero
		for c := 0; c < n; c++ {
			weight, err := Weight(Shapley, c, n)
			if err != nil {
				t.Fatalf("n=%d c=%d: %v", n, c, err)
			}
			binom, err := Binomial(n-1, c)
			if err != nil {
				t.Fatalf("n=%d c=%d: %v", n, c, err)
			}
			sum = sum.Add(weight.Mul(decimal.NewFromInt(binom)))
		}
		if sum.Sub(decimal.New(1, 0)).Abs().GreaterThan(tolerance) {
			t.Errorf("n=%d: Shapley weights sum to %s, want 1", n, sum)
		}
	}
}

func TestBanzhafWeightConstant(t *testing.T) {
	for n := 1; n <= 6; n++ {
		want := decimal.New(1, 0).DivRound(decimal.NewFromInt(int64(1)<<(n-1)), 24)
		for c := 0; c < n; c++ {
			got, err := Weight(Banzhaf, c, n)
			if err != nil {
				t.Fatalf("n=%d c=%d: %v", n, c, err)
			}
			if !got.Equal(want) {
				t.Errorf("n=%d c=%d: Banzhaf weight %s, want %s", n, c, got, want)
			}
		}
	}
}

func TestSinglePlayerWeightIsOne(t *testing.T) {
	one := decimal.New(1, 0)
	for _, idx := range []Index{Shapley, Banzhaf} {
		got, err := Weight(idx, 0, 1)
		if err != nil {
			t.Fatalf("%s: %v", idx, err)
		}
		if !got.Equal(one) {
			t.Errorf("%s: n=1 weight is %s, want exactly 1", idx, got)
		}
	}
}

func TestWeightValidation(t *testing.T) {
	if _, err := Weight(Shapley, 0, 0); err == nil {
		t.Error("zero players must error, not divide by zero")
	}
	if _, err := Weight(Shapley, 3, 3); err == nil {
		t.Error("coalition size n is out of range for n players")
	}
	if _, err := Weight(Custom, 0, 2); !errors.IsType(err, errors.TypeNotSupported) {
		t.Errorf("custom index must be NOT_SUPPORTED, got %v", err)
	}
}

func TestShapleyWeightValues(t *testing.T) {
	// n=3: p_0 = 1/3, p_1 = 1/6, p_2 = 1/3
	tests := []struct {
		c    int
		want decimal.Decimal
	}{
		{0, decimal.New(1, 0).DivRound(decimal.NewFromInt(3), 24)},
		{1, decimal.New(1, 0).DivRound(decimal.NewFromInt(6), 24)},
		{2, decimal.New(1, 0).DivRound(decimal.NewFromInt(3), 24)},
	}
	for _, tt := range tests {
		got, err := Weight(Shapley, tt.c, 3)
		if err != nil {
			t.Fatalf("c=%d: %v", tt.c, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("c=%d: weight %s, want %s", tt.c, got, tt.want)
		}
	}
}
