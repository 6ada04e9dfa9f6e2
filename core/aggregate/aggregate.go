// Package aggregate rolls state-level responsibility up to component
// labels. This is cosmetic post-processing over the state map and is
// independent of the core computation.
package aggregate

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"traceblame/core/ts"
)

var plainStatePattern = regexp.MustCompile(`^s\d+$`)

const averagePrecision = 16

// Component derives a component label from a state identifier:
// the prefix before the first "." for module-style names
// ("module.var=val" -> "module"), "state" for bare s<digits> names,
// and "unknown" otherwise.
func Component(st ts.State) string {
	name := string(st)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	if plainStatePattern.MatchString(name) {
		return "state"
	}
	return "unknown"
}

// ByComponent averages per-state responsibility within each component
// label.
//
// Applying it to an already component-keyed map is not idempotent in
// general: labels that themselves contain "." are re-split, and labels
// without one collapse into the "unknown" bucket.
func ByComponent(states map[ts.State]decimal.Decimal) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	counts := make(map[string]int64)
	for st, value := range states {
		component := Component(st)
		sums[component] = sums[component].Add(value)
		counts[component]++
	}

	out := make(map[string]decimal.Decimal, len(sums))
	for component, sum := range sums {
		out[component] = sum.DivRound(decimal.NewFromInt(counts[component]), averagePrecision)
	}
	return out
}
