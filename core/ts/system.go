// Package ts provides the transition system model: the graph container
// that responsibility computation operates on.
package ts

import (
	"sort"

	"traceblame/internal/errors"
)

// State is an opaque state identifier. Identity and equality are the
// only structure the core requires.
type State string

// System is a transition system TS = (S, ->, s0, Bad).
//
// It is built incrementally by an extractor (model loader, synthetic
// generator) and treated as immutable for the duration of a compute
// call. Transition endpoints are registered as states automatically,
// so a reference to an undeclared state extends the state set rather
// than dangling.
type System struct {
	states     map[State]struct{}
	successors map[State]map[State]struct{}
	initial    State
	hasInitial bool
	bad        map[State]struct{}
}

// NewSystem creates an empty transition system
func NewSystem() *System {
	return &System{
		states:     make(map[State]struct{}),
		successors: make(map[State]map[State]struct{}),
		bad:        make(map[State]struct{}),
	}
}

// AddState registers a state
func (s *System) AddState(st State) {
	s.states[st] = struct{}{}
}

// AddTransition adds a directed edge, registering both endpoints
func (s *System) AddTransition(from, to State) {
	s.states[from] = struct{}{}
	s.states[to] = struct{}{}
	succ, ok := s.successors[from]
	if !ok {
		succ = make(map[State]struct{})
		s.successors[from] = succ
	}
	succ[to] = struct{}{}
}

// AddBadState marks a state as bad, registering it
func (s *System) AddBadState(st State) {
	s.states[st] = struct{}{}
	s.bad[st] = struct{}{}
}

// SetInitial sets the designated start state
func (s *System) SetInitial(st State) {
	s.states[st] = struct{}{}
	s.initial = st
	s.hasInitial = true
}

// Initial returns the initial state and whether one is set
func (s *System) Initial() (State, bool) {
	return s.initial, s.hasInitial
}

// Contains reports whether st is a member of the state set
func (s *System) Contains(st State) bool {
	_, ok := s.states[st]
	return ok
}

// IsBad reports whether st is a bad state
func (s *System) IsBad(st State) bool {
	_, ok := s.bad[st]
	return ok
}

// HasTransition reports whether the edge from->to exists
func (s *System) HasTransition(from, to State) bool {
	succ, ok := s.successors[from]
	if !ok {
		return false
	}
	_, ok = succ[to]
	return ok
}

// States returns all states in sorted order
func (s *System) States() []State {
	return sortedStates(s.states)
}

// BadStates returns the bad states in sorted order
func (s *System) BadStates() []State {
	return sortedStates(s.bad)
}

// Successors returns the successors of st in sorted order.
// A state with no outgoing edges yields an empty slice, not an error.
func (s *System) Successors(st State) []State {
	return sortedStates(s.successors[st])
}

// BranchingDegree returns the out-degree of st
func (s *System) BranchingDegree(st State) int {
	return len(s.successors[st])
}

// Len returns the number of states
func (s *System) Len() int {
	return len(s.states)
}

// TransitionCount returns the total number of directed edges
func (s *System) TransitionCount() int {
	count := 0
	for _, succ := range s.successors {
		count += len(succ)
	}
	return count
}

func sortedStates(set map[State]struct{}) []State {
	out := make([]State, 0, len(set))
	for st := range set {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Counterexample is an ordered, loop-free trace s0 ... sk ending in a
// bad state. The core assumes but does not enforce loop-freedom.
type Counterexample []State

// Last returns the final trace state and whether the trace is non-empty
func (c Counterexample) Last() (State, bool) {
	if len(c) == 0 {
		return "", false
	}
	return c[len(c)-1], true
}

// Contains reports whether st appears on the trace
func (c Counterexample) Contains(st State) bool {
	for _, s := range c {
		if s == st {
			return true
		}
	}
	return false
}

// NextOnTrace returns the successor-on-trace map: for each trace state
// except the last, the state that follows it on the trace.
func (c Counterexample) NextOnTrace() map[State]State {
	next := make(map[State]State, len(c))
	for i := 0; i+1 < len(c); i++ {
		next[c[i]] = c[i+1]
	}
	return next
}

// Validate checks a counterexample against a transition system.
//
// It fails fast when the trace references a state outside the system,
// when consecutive trace states are not connected by a transition, or
// when a non-empty trace does not end in a bad state. An empty trace
// is degenerate but valid.
func Validate(sys *System, trace Counterexample) error {
	for _, st := range trace {
		if !sys.Contains(st) {
			return errors.Inputf("counterexample references unknown state %q", st)
		}
	}
	for i := 0; i+1 < len(trace); i++ {
		if !sys.HasTransition(trace[i], trace[i+1]) {
			return errors.Inputf("counterexample is not a path: no transition %q -> %q", trace[i], trace[i+1])
		}
	}
	if last, ok := trace.Last(); ok && !sys.IsBad(last) {
		return errors.Inputf("counterexample does not end in a bad state: %q", last)
	}
	return nil
}
