// Package game provides the safety game engine: the restricted two-player
// game built for a coalition and counterexample, and its attractor-based
// solver.
//
// A safety game bipartitions the state space between player Safe (the
// coalition) and player Reach (everyone else). Safe wins a play that
// avoids the bad states forever.
package game

import (
	"traceblame/core/ts"
)

// Player identifies which side controls a state
type Player int

const (
	// PlayerSafe controls coalition states and wins by avoiding Bad forever
	PlayerSafe Player = iota

	// PlayerReach controls the remaining states and wins by entering Bad
	PlayerReach
)

func (p Player) String() string {
	if p == PlayerSafe {
		return "safe"
	}
	return "reach"
}

// Game is the arena built for one coalition-value query. It is an
// immutable snapshot of (system, trace, coalition) and is discarded
// after one solve; nothing is cached across queries.
type Game struct {
	safe       map[ts.State]struct{}
	succ       map[ts.State][]ts.State
	initial    ts.State
	hasInitial bool
	bad        map[ts.State]struct{}
}

// Build constructs the game for coalition C over a transition system and
// counterexample trace.
//
// Coalition states are controlled by Safe, all others by Reach. The
// transition relation equals the system's except for states that lie on
// the trace but outside the coalition: those are pinned to their single
// successor-on-trace, forcing them to keep following the trace. The last
// trace state (and any trace state with no defined next-on-trace) keeps
// its full successor set. States with no outgoing edges get empty
// successor sets, never errors.
func Build(sys *ts.System, trace ts.Counterexample, coalition map[ts.State]struct{}) *Game {
	g := &Game{
		safe: make(map[ts.State]struct{}, len(coalition)),
		succ: make(map[ts.State][]ts.State, sys.Len()),
		bad:  make(map[ts.State]struct{}),
	}
	for st := range coalition {
		g.safe[st] = struct{}{}
	}

	next := trace.NextOnTrace()
	onTrace := make(map[ts.State]struct{}, len(trace))
	for _, st := range trace {
		onTrace[st] = struct{}{}
	}

	for _, st := range sys.States() {
		successors := sys.Successors(st)
		_, traced := onTrace[st]
		_, inCoalition := coalition[st]
		if traced && !inCoalition && len(successors) > 0 {
			if nextState, ok := next[st]; ok {
				g.succ[st] = []ts.State{nextState}
				continue
			}
		}
		g.succ[st] = successors
	}

	if initial, ok := sys.Initial(); ok {
		g.initial = initial
		g.hasInitial = true
	}
	for _, bad := range sys.BadStates() {
		g.bad[bad] = struct{}{}
	}
	return g
}

// Controller returns which player controls st
func (g *Game) Controller(st ts.State) Player {
	if _, ok := g.safe[st]; ok {
		return PlayerSafe
	}
	return PlayerReach
}

// Successors returns the game-restricted successors of st
func (g *Game) Successors(st ts.State) []ts.State {
	return g.succ[st]
}

// Initial returns the initial state and whether one is set
func (g *Game) Initial() (ts.State, bool) {
	return g.initial, g.hasInitial
}

// IsBad reports whether st is a bad state
func (g *Game) IsBad(st ts.State) bool {
	_, ok := g.bad[st]
	return ok
}

// States returns every state in the arena
func (g *Game) States() []ts.State {
	out := make([]ts.State, 0, len(g.succ))
	for st := range g.succ {
		out = append(out, st)
	}
	return out
}
