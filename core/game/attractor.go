package game

import (
	"traceblame/core/ts"
)

// ReachAttractor computes the set of states from which Reach can force
// the play into Bad: the least fixed point seeded with the bad states,
// where a Reach state joins when some successor is already inside and a
// Safe state joins when all of its successors are inside.
//
// A state with no successors never joins on either rule: a player that
// cannot move stays put forever, so a stuck non-bad state is winning for
// Safe. Terminal states on both sides are pinned by tests.
//
// The worklist is predecessor-indexed, so each edge is examined a
// constant number of times and the whole computation is linear in the
// size of the game.
func (g *Game) ReachAttractor() map[ts.State]struct{} {
	preds := make(map[ts.State][]ts.State, len(g.succ))
	remaining := make(map[ts.State]int, len(g.succ))
	for st, successors := range g.succ {
		remaining[st] = len(successors)
		for _, next := range successors {
			preds[next] = append(preds[next], st)
		}
	}

	attractor := make(map[ts.State]struct{}, len(g.bad))
	queue := make([]ts.State, 0, len(g.bad))
	for bad := range g.bad {
		attractor[bad] = struct{}{}
		queue = append(queue, bad)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, pred := range preds[current] {
			if _, in := attractor[pred]; in {
				continue
			}
			remaining[pred]--
			add := false
			if g.Controller(pred) == PlayerReach {
				// one successor inside suffices
				add = true
			} else if remaining[pred] == 0 {
				// every successor inside
				add = true
			}
			if add {
				attractor[pred] = struct{}{}
				queue = append(queue, pred)
			}
		}
	}

	return attractor
}

// SafeWinningRegion returns the complement of the Reach attractor: the
// states from which Safe has a strategy avoiding Bad forever.
func (g *Game) SafeWinningRegion() map[ts.State]struct{} {
	attractor := g.ReachAttractor()
	winning := make(map[ts.State]struct{}, len(g.succ)-len(attractor))
	for st := range g.succ {
		if _, lost := attractor[st]; !lost {
			winning[st] = struct{}{}
		}
	}
	return winning
}

// SafeWins reports whether Safe wins from the initial state. Without an
// initial state no winning claim can be made; callers are expected to
// reject that input before building games.
func (g *Game) SafeWins() bool {
	if !g.hasInitial {
		return false
	}
	_, ok := g.SafeWinningRegion()[g.initial]
	return ok
}
