package ts

import (
	"testing"

	"traceblame/internal/errors"
)

func railway() *System {
	sys := NewSystem()
	sys.AddTransition("s1", "s2")
	sys.AddTransition("s1", "s4")
	sys.AddTransition("s2", "s3")
	sys.AddTransition("s2", "s5")
	sys.AddTransition("s3", "error")
	sys.AddTransition("s4", "safe")
	sys.AddTransition("s5", "safe")
	sys.SetInitial("s1")
	sys.AddBadState("error")
	return sys
}

func TestSystemConstruction(t *testing.T) {
	sys := railway()

	if sys.Len() != 7 {
		t.Errorf("expected 7 states, got %d", sys.Len())
	}
	if sys.TransitionCount() != 7 {
		t.Errorf("expected 7 transitions, got %d", sys.TransitionCount())
	}
	if initial, ok := sys.Initial(); !ok || initial != "s1" {
		t.Errorf("expected initial s1, got %q (set=%v)", initial, ok)
	}
	if !sys.IsBad("error") || sys.IsBad("safe") {
		t.Error("bad state classification wrong")
	}
	if got := sys.BranchingDegree("s1"); got != 2 {
		t.Errorf("expected branching degree 2 for s1, got %d", got)
	}
	if got := sys.BranchingDegree("safe"); got != 0 {
		t.Errorf("expected branching degree 0 for safe, got %d", got)
	}
}

func TestTransitionRegistersEndpoints(t *testing.T) {
	sys := NewSystem()
	sys.AddTransition("a", "b")

	if !sys.Contains("a") || !sys.Contains("b") {
		t.Error("transition endpoints must become state-set members")
	}
	if succ := sys.Successors("b"); len(succ) != 0 {
		t.Errorf("dead end must have empty successors, got %v", succ)
	}
}

func TestSuccessorsSorted(t *testing.T) {
	sys := NewSystem()
	sys.AddTransition("x", "c")
	sys.AddTransition("x", "a")
	sys.AddTransition("x", "b")

	succ := sys.Successors("x")
	want := []State{"a", "b", "c"}
	if len(succ) != len(want) {
		t.Fatalf("expected %d successors, got %d", len(want), len(succ))
	}
	for i := range want {
		if succ[i] != want[i] {
			t.Errorf("successor %d: expected %q, got %q", i, want[i], succ[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		trace   Counterexample
		wantErr bool
	}{
		{
			name:    "valid counterexample",
			trace:   Counterexample{"s1", "s2", "s3", "error"},
			wantErr: false,
		},
		{
			name:    "empty trace is degenerate, not invalid",
			trace:   nil,
			wantErr: false,
		},
		{
			name:    "trace of a single bad state",
			trace:   Counterexample{"error"},
			wantErr: false,
		},
		{
			name:    "unknown state",
			trace:   Counterexample{"s1", "ghost", "error"},
			wantErr: true,
		},
		{
			name:    "disconnected hop",
			trace:   Counterexample{"s1", "s3", "error"},
			wantErr: true,
		},
		{
			name:    "does not end in a bad state",
			trace:   Counterexample{"s1", "s2", "s5"},
			wantErr: true,
		},
	}

	sys := railway()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(sys, tt.trace)
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr && !errors.IsType(err, errors.TypeInput) {
				t.Errorf("expected INPUT_ERROR, got %v", err)
			}
		})
	}
}

func TestCounterexampleHelpers(t *testing.T) {
	trace := Counterexample{"s1", "s2", "s3", "error"}

	if last, ok := trace.Last(); !ok || last != "error" {
		t.Errorf("expected last=error, got %q (ok=%v)", last, ok)
	}
	if _, ok := Counterexample(nil).Last(); ok {
		t.Error("empty trace must report no last state")
	}
	if !trace.Contains("s2") || trace.Contains("s4") {
		t.Error("Contains is wrong")
	}

	next := trace.NextOnTrace()
	if next["s1"] != "s2" || next["s2"] != "s3" || next["s3"] != "error" {
		t.Errorf("unexpected next-on-trace map: %v", next)
	}
	if _, ok := next["error"]; ok {
		t.Error("last trace state must not have a next-on-trace entry")
	}
}
