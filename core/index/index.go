// Package index provides the power indices that weight marginal
// contributions across coalitions: Shapley and Banzhaf, plus a named
// custom extension point that is parsed but not computed.
package index

import (
	"strings"

	"github.com/shopspring/decimal"

	"traceblame/internal/errors"
)

// Index selects a power index
type Index string

const (
	// Shapley weights a coalition of size c as 1/(n * C(n-1, c))
	Shapley Index = "shapley"

	// Banzhaf weights every coalition as 1/2^(n-1)
	Banzhaf Index = "banzhaf"

	// Custom is a named extension point. It parses, but computing with
	// it fails; there is no silent fallback to a default index.
	Custom Index = "custom"
)

// weightPrecision is the decimal division precision for index weights.
// Banzhaf weights are exact; Shapley weights are exact whenever
// n * C(n-1, c) divides a power of ten and rounded at this precision
// otherwise, which keeps results deterministic.
const weightPrecision = 24

// Parse converts a string to an Index
func Parse(s string) (Index, error) {
	switch Index(strings.ToLower(strings.TrimSpace(s))) {
	case Shapley:
		return Shapley, nil
	case Banzhaf:
		return Banzhaf, nil
	case Custom:
		return Custom, nil
	default:
		return "", errors.Newf(errors.TypeNotSupported, "unknown power index %q (want shapley or banzhaf)", s)
	}
}

// Weight returns the coalition weight p_c for a game of n players.
//
// Shapley: p_c = (n-c-1)! c! / n! = 1/(n * C(n-1, c)).
// Banzhaf: p_c = 1/2^(n-1), independent of c.
//
// n must be at least 1 and c at most n-1. For n = 1 both indices yield
// exactly 1 (C(0,0) = 1 and 2^0 = 1).
func Weight(idx Index, coalitionSize, players int) (decimal.Decimal, error) {
	if players < 1 {
		return decimal.Zero, errors.Inputf("power index weight undefined for %d players", players)
	}
	if coalitionSize < 0 || coalitionSize > players-1 {
		return decimal.Zero, errors.Inputf("coalition size %d out of range for %d players", coalitionSize, players)
	}

	switch idx {
	case Shapley:
		binom, err := Binomial(players-1, coalitionSize)
		if err != nil {
			return decimal.Zero, err
		}
		denom := decimal.NewFromInt(int64(players)).Mul(decimal.NewFromInt(binom))
		return decimal.New(1, 0).DivRound(denom, weightPrecision), nil
	case Banzhaf:
		return decimal.New(1, 0).DivRound(pow2(players-1), weightPrecision), nil
	case Custom:
		return decimal.Zero, errors.NotSupported("custom power index")
	default:
		return decimal.Zero, errors.Newf(errors.TypeNotSupported, "unknown power index %q", idx)
	}
}

// BanzhafK returns the optimistic normalization constant 1/2^(size-1)
// for a winning set of the given size.
func BanzhafK(size int) decimal.Decimal {
	if size < 1 {
		return decimal.Zero
	}
	return decimal.New(1, 0).DivRound(pow2(size-1), weightPrecision)
}

// ShapleyK returns the optimistic normalization constant 1/size for a
// winning set of the given size.
func ShapleyK(size int) decimal.Decimal {
	if size < 1 {
		return decimal.Zero
	}
	return decimal.New(1, 0).DivRound(decimal.NewFromInt(int64(size)), weightPrecision)
}

// Binomial computes C(n, k) iteratively. The intermediate products stay
// exact in int64 for the player counts the engine accepts.
func Binomial(n, k int) (int64, error) {
	if n < 0 || k < 0 {
		return 0, errors.Inputf("binomial undefined for C(%d, %d)", n, k)
	}
	if k > n {
		return 0, nil
	}
	if k > n-k {
		k = n - k
	}
	var result int64 = 1
	for i := 0; i < k; i++ {
		next := result * int64(n-i)
		if next/int64(n-i) != result {
			return 0, errors.Limit("binomial coefficient overflow")
		}
		result = next / int64(i+1)
	}
	return result, nil
}

func pow2(exp int) decimal.Decimal {
	if exp <= 0 {
		return decimal.New(1, 0)
	}
	return decimal.NewFromInt(2).Pow(decimal.NewFromInt(int64(exp)))
}
