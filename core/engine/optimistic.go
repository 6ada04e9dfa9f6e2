package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"traceblame/core/coop"
	"traceblame/core/index"
	"traceblame/core/ts"
)

// computeOptimistic applies the characterization theorem: the optimistic
// winning set WS_opt is derived from singleton coalitions only, every
// member gets the uniform constant K and everyone else gets zero. This
// is an exact simplification of the general power-index sum, not an
// approximation; the equivalence is pinned by tests.
func (e *Engine) computeOptimistic(ctx context.Context, req Request, players []ts.State, result *Result) error {
	winning := make([]ts.State, 0, len(players))
	winningSet := make(map[ts.State]struct{}, len(players))
	for _, player := range players {
		if err := ctx.Err(); err != nil {
			return err
		}
		singleton := map[ts.State]struct{}{player: {}}
		if coop.Optimistic(req.System, req.Trace, singleton) == 1 {
			winning = append(winning, player)
			winningSet[player] = struct{}{}
		}
	}

	var k decimal.Decimal
	if len(winning) > 0 {
		switch req.Index {
		case index.Shapley:
			k = index.ShapleyK(len(winning))
		case index.Banzhaf:
			k = index.BanzhafK(len(winning))
		}
	}

	for _, player := range players {
		value := decimal.Zero
		_, wins := winningSet[player]
		if wins {
			value = k
		}
		result.States[player] = value
		result.StateInfo[player] = StateInfo{
			OnTrace:         true,
			BranchingDegree: req.System.BranchingDegree(player),
			CanWinAlone:     wins,
		}
	}

	result.WinningSet = winning
	result.NormalizationK = &k
	return nil
}
