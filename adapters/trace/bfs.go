// Package trace generates counterexample traces for a transition
// system. The core consumes traces as ordered state lists; how they are
// produced (here, breadth-first search) is an input-side concern.
package trace

import (
	"go.uber.org/zap"

	"traceblame/core/ts"
	"traceblame/internal/errors"
	"traceblame/internal/logging"
)

// ShortestToBad returns a shortest path from the initial state to any
// bad state. Successors are explored in sorted order, so the result is
// deterministic.
func ShortestToBad(sys *ts.System) (ts.Counterexample, error) {
	initial, ok := sys.Initial()
	if !ok {
		return nil, errors.Input("transition system has no initial state")
	}
	if len(sys.BadStates()) == 0 {
		return nil, errors.NotFound("bad state", "transition system declares none")
	}

	path := bfs(sys, initial, sys.IsBad)
	if path == nil {
		return nil, errors.NotFound("counterexample", "no bad state is reachable from the initial state")
	}
	return path, nil
}

// GoalFallback handles models without declared bad states: it picks the
// nearest reachable terminal state (no successors, or only a self-loop),
// marks it bad on the system, and returns the path to it.
func GoalFallback(sys *ts.System) (ts.Counterexample, error) {
	initial, ok := sys.Initial()
	if !ok {
		return nil, errors.Input("transition system has no initial state")
	}

	terminal := func(st ts.State) bool {
		succ := sys.Successors(st)
		if len(succ) == 0 {
			return true
		}
		return len(succ) == 1 && succ[0] == st
	}

	path := bfs(sys, initial, terminal)
	if path == nil {
		return nil, errors.NotFound("counterexample", "no terminal state is reachable from the initial state")
	}

	goal := path[len(path)-1]
	sys.AddBadState(goal)
	logging.Debug("synthesized goal-based counterexample",
		zap.String("goal", string(goal)),
		zap.Int("length", len(path)))
	return path, nil
}

// Generate returns a counterexample for the system: the shortest path
// to a declared bad state, or the goal-based fallback when none are
// declared.
func Generate(sys *ts.System) (ts.Counterexample, error) {
	if len(sys.BadStates()) > 0 {
		return ShortestToBad(sys)
	}
	return GoalFallback(sys)
}

func bfs(sys *ts.System, start ts.State, isTarget func(ts.State) bool) ts.Counterexample {
	if isTarget(start) {
		return ts.Counterexample{start}
	}

	parent := map[ts.State]ts.State{}
	visited := map[ts.State]struct{}{start: {}}
	queue := []ts.State{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range sys.Successors(current) {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			parent[next] = current

			if isTarget(next) {
				path := ts.Counterexample{next}
				for at := current; ; {
					path = append(ts.Counterexample{at}, path...)
					prev, ok := parent[at]
					if !ok {
						break
					}
					at = prev
				}
				return path
			}
			queue = append(queue, next)
		}
	}
	return nil
}
