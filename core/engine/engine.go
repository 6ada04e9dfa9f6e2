// Package engine provides the API-primary responsibility computation.
// CLI and any other surface are thin wrappers around this engine.
//
// A compute call is a pure, synchronous function of its inputs: no
// shared state survives between calls and independent calls may run
// concurrently without coordination.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"traceblame/core/aggregate"
	"traceblame/core/determinism"
	"traceblame/core/index"
	"traceblame/core/ts"
	"traceblame/internal/errors"
	"traceblame/internal/logging"
)

// Semantics selects the cooperative game value function. There are
// exactly two, defined by the theory; this is a closed set, matched
// once at the top of Compute.
type Semantics string

const (
	// SemanticsOptimistic assumes off-trace states cooperate to avoid
	// the violation; computed via the closed-form characterization.
	SemanticsOptimistic Semantics = "optimistic"

	// SemanticsPessimistic lets every state outside the coalition play
	// adversarially; computed via the exact general power-index sum.
	SemanticsPessimistic Semantics = "pessimistic"
)

// ParseSemantics converts a string to a Semantics
func ParseSemantics(s string) (Semantics, error) {
	switch Semantics(s) {
	case SemanticsOptimistic:
		return SemanticsOptimistic, nil
	case SemanticsPessimistic:
		return SemanticsPessimistic, nil
	default:
		return "", errors.Newf(errors.TypeNotSupported, "unknown semantics %q (want optimistic or pessimistic)", s)
	}
}

// Config configures the engine
type Config struct {
	// MaxPlayers caps the trace player count accepted by the exact
	// coalition enumeration; above it Compute fails fast instead of
	// hanging on 2^(n-1) terms.
	MaxPlayers int

	// Workers bounds the concurrent fan-out across players in the
	// pessimistic enumeration.
	Workers int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		MaxPlayers: 20,
		Workers:    4,
	}
}

// Engine computes backward responsibility
type Engine struct {
	cfg Config
}

// New creates an engine
func New(cfg Config) *Engine {
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = DefaultConfig().MaxPlayers
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	return &Engine{cfg: cfg}
}

// Request is the input to a responsibility computation
type Request struct {
	// System is the transition system under analysis
	System *ts.System

	// Trace is the counterexample ending in a bad state
	Trace ts.Counterexample

	// Semantics selects optimistic or pessimistic responsibility
	Semantics Semantics

	// Index selects the power index
	Index index.Index
}

// StateInfo is per-player auxiliary metadata
type StateInfo struct {
	// OnTrace is true for every player by construction
	OnTrace bool `json:"on_trace"`

	// BranchingDegree is the state's out-degree in the transition system
	BranchingDegree int `json:"branching_degree"`

	// CanWinAlone reports v({s}) = 1 under the semantics in use
	CanWinAlone bool `json:"can_win_alone"`
}

// Result is the output of a responsibility computation
type Result struct {
	// RunID identifies this computation
	RunID string `json:"run_id"`

	// Semantics is the responsibility semantics used
	Semantics Semantics `json:"semantics"`

	// Index is the power index used
	Index index.Index `json:"power_index"`

	// States maps each player to its responsibility in [0,1]
	States map[ts.State]decimal.Decimal `json:"state_responsibility"`

	// Components is the per-component roll-up of States
	Components map[string]decimal.Decimal `json:"component_responsibility"`

	// WinningSet is the optimistic winning set (optimistic runs only)
	WinningSet []ts.State `json:"winning_set,omitempty"`

	// NormalizationK is the uniform optimistic responsibility constant
	// (optimistic runs only; zero when the winning set is empty)
	NormalizationK *decimal.Decimal `json:"normalization_k,omitempty"`

	// StateInfo carries per-player metadata
	StateInfo map[ts.State]StateInfo `json:"state_info"`

	// Counterexample echoes the analyzed trace
	Counterexample ts.Counterexample `json:"counterexample"`

	// Duration is the wall-clock compute time
	Duration time.Duration `json:"-"`
}

// Fingerprint returns a stable hash of the numeric result, independent
// of run ID and timing.
func (r *Result) Fingerprint() string {
	return determinism.Fingerprint(struct {
		Semantics  Semantics
		Index      index.Index
		States     map[ts.State]decimal.Decimal
		Components map[string]decimal.Decimal
	}{r.Semantics, r.Index, r.States, r.Components})
}

// Compute runs one responsibility computation.
//
// Players are the trace states that are not themselves bad, in trace
// order. An empty player set (empty trace, or a trace consisting solely
// of bad states) yields an empty result, not an error. Malformed input
// and unsupported configurations fail fast before any game is solved.
func (e *Engine) Compute(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if req.System == nil {
		return nil, errors.Input("transition system is required")
	}
	switch req.Index {
	case index.Shapley, index.Banzhaf:
	case index.Custom:
		return nil, errors.NotSupported("custom power index")
	default:
		return nil, errors.Newf(errors.TypeNotSupported, "unknown power index %q", req.Index)
	}
	if _, err := ParseSemantics(string(req.Semantics)); err != nil {
		return nil, err
	}
	if err := ts.Validate(req.System, req.Trace); err != nil {
		return nil, err
	}

	players := playersOf(req.System, req.Trace)

	result := &Result{
		RunID:          uuid.NewString(),
		Semantics:      req.Semantics,
		Index:          req.Index,
		States:         make(map[ts.State]decimal.Decimal, len(players)),
		StateInfo:      make(map[ts.State]StateInfo, len(players)),
		Counterexample: req.Trace,
	}

	if len(players) == 0 {
		result.Components = aggregate.ByComponent(result.States)
		result.Duration = time.Since(start)
		return result, nil
	}

	if _, ok := req.System.Initial(); !ok {
		return nil, errors.Input("transition system has no initial state")
	}
	if len(players) > e.cfg.MaxPlayers {
		return nil, errors.Newf(errors.TypeLimit,
			"trace has %d players, exact enumeration capped at %d", len(players), e.cfg.MaxPlayers).
			WithContext("players", len(players)).
			WithContext("max_players", e.cfg.MaxPlayers)
	}

	logging.Debug("computing responsibility",
		zap.String("semantics", string(req.Semantics)),
		zap.String("index", string(req.Index)),
		zap.Int("players", len(players)))

	var err error
	switch req.Semantics {
	case SemanticsOptimistic:
		err = e.computeOptimistic(ctx, req, players, result)
	case SemanticsPessimistic:
		err = e.computePessimistic(ctx, req, players, result)
	}
	if err != nil {
		return nil, err
	}

	result.Components = aggregate.ByComponent(result.States)
	result.Duration = time.Since(start)

	logging.Info("responsibility computed",
		zap.String("run_id", result.RunID),
		zap.String("semantics", string(req.Semantics)),
		zap.String("index", string(req.Index)),
		zap.Int("players", len(players)),
		zap.String("fingerprint", result.Fingerprint()),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// playersOf returns the trace states that are not bad, in trace order
func playersOf(sys *ts.System, trace ts.Counterexample) []ts.State {
	players := make([]ts.State, 0, len(trace))
	for _, st := range trace {
		if !sys.IsBad(st) {
			players = append(players, st)
		}
	}
	return players
}
