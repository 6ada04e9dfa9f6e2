package trace

import (
	"testing"

	"traceblame/core/ts"
	"traceblame/internal/errors"
)

func railway() *ts.System {
	sys := ts.NewSystem()
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

func wantTrace(t *testing.T, got ts.Counterexample, want ...ts.State) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected trace %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected trace %v, got %v", want, got)
		}
	}
}

func TestShortestToBad(t *testing.T) {
	trace, err := ShortestToBad(railway())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTrace(t, trace, "s1", "s2", "s3", "error")
}

func TestShortestToBadIsValidCounterexample(t *testing.T) {
	sys := railway()
	trace, err := ShortestToBad(sys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ts.Validate(sys, trace); err != nil {
		t.Errorf("generated trace must validate: %v", err)
	}
}

func TestShortestToBadInitialIsBad(t *testing.T) {
	sys := ts.NewSystem()
	sys.AddBadState("boom")
	sys.SetInitial("boom")

	trace, err := ShortestToBad(sys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTrace(t, trace, "boom")
}

func TestShortestToBadErrors(t *testing.T) {
	noInitial := ts.NewSystem()
	noInitial.AddBadState("bad")
	if _, err := ShortestToBad(noInitial); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("missing initial: expected INPUT_ERROR, got %v", err)
	}

	noBad := ts.NewSystem()
	noBad.AddTransition("a", "b")
	noBad.SetInitial("a")
	if _, err := ShortestToBad(noBad); !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("no bad states: expected NOT_FOUND, got %v", err)
	}

	unreachable := ts.NewSystem()
	unreachable.AddTransition("a", "b")
	unreachable.AddState("island")
	unreachable.AddBadState("island")
	unreachable.SetInitial("a")
	if _, err := ShortestToBad(unreachable); !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("unreachable bad state: expected NOT_FOUND, got %v", err)
	}
}

func TestGoalFallback(t *testing.T) {
	sys := ts.NewSystem()
	sys.AddTransition("a", "b")
	sys.AddTransition("b", "done")
	sys.SetInitial("a")

	trace, err := GoalFallback(sys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTrace(t, trace, "a", "b", "done")

	// the goal is promoted to a bad state so the trace validates
	if !sys.IsBad("done") {
		t.Error("fallback goal must be marked bad")
	}
	if err := ts.Validate(sys, trace); err != nil {
		t.Errorf("fallback trace must validate: %v", err)
	}
}

func TestGoalFallbackSelfLoop(t *testing.T) {
	sys := ts.NewSystem()
	sys.AddTransition("a", "loop")
	sys.AddTransition("loop", "loop")
	sys.SetInitial("a")

	trace, err := GoalFallback(sys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTrace(t, trace, "a", "loop")
	if !sys.IsBad("loop") {
		t.Error("self-loop terminal must count as a goal")
	}
}

func TestGenerate(t *testing.T) {
	// with declared bad states Generate is ShortestToBad
	trace, err := Generate(railway())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTrace(t, trace, "s1", "s2", "s3", "error")

	// without them it falls back to a terminal goal
	sys := ts.NewSystem()
	sys.AddTransition("a", "end")
	sys.SetInitial("a")
	trace, err = Generate(sys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTrace(t, trace, "a", "end")
}
