// Package coop provides the cooperative game value functions: 0/1
// oracles over coalitions of trace states, each reducing to one safety
// game solve.
//
// The two games follow "Backward Responsibility in Transition Systems
// Using General Power Indices" (Baier et al., 2024),
// https://arxiv.org/abs/2402.01539.
package coop

import (
	"traceblame/core/game"
	"traceblame/core/ts"
)

// Pessimistic computes v_pes(C): 1 when Safe wins the game where
// coalition C controls exactly C and every other state, on or off the
// trace, plays adversarially.
func Pessimistic(sys *ts.System, trace ts.Counterexample, coalition map[ts.State]struct{}) int {
	if game.Build(sys, trace, coalition).SafeWins() {
		return 1
	}
	return 0
}

// Optimistic computes v_opt(C): 1 when Safe wins the game where the
// coalition is augmented with every state not on the trace, i.e. the
// best case in which off-trace states cooperate to avoid the violation.
func Optimistic(sys *ts.System, trace ts.Counterexample, coalition map[ts.State]struct{}) int {
	augmented := make(map[ts.State]struct{}, len(coalition))
	for st := range coalition {
		augmented[st] = struct{}{}
	}
	onTrace := make(map[ts.State]struct{}, len(trace))
	for _, st := range trace {
		onTrace[st] = struct{}{}
	}
	for _, st := range sys.States() {
		if _, traced := onTrace[st]; !traced {
			augmented[st] = struct{}{}
		}
	}
	if game.Build(sys, trace, augmented).SafeWins() {
		return 1
	}
	return 0
}
