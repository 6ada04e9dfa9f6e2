package engine

import (
	"context"
	"math/bits"

	"github.com/shopspring/decimal"

	"golang.org/x/sync/errgroup"

	"traceblame/core/coop"
	"traceblame/core/index"
	"traceblame/core/ts"
)

// computePessimistic evaluates the general power-index formula exactly:
// for each player, every coalition over the remaining n-1 players is
// enumerated by bitmask and its marginal contribution weighted by the
// index. Terms are independent, so players fan out across an errgroup
// bounded by the configured worker count; each worker writes only its
// own slots.
func (e *Engine) computePessimistic(ctx context.Context, req Request, players []ts.State, result *Result) error {
	n := len(players)

	// p_c for every coalition size, computed once
	weights := make([]decimal.Decimal, n)
	for c := 0; c < n; c++ {
		w, err := index.Weight(req.Index, c, n)
		if err != nil {
			return err
		}
		weights[c] = w
	}

	values := make([]decimal.Decimal, n)
	canWin := make([]bool, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i := range players {
		i := i
		g.Go(func() error {
			var err error
			values[i], canWin[i], err = e.playerResponsibility(gctx, req, players, i, weights)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, player := range players {
		result.States[player] = values[i]
		result.StateInfo[player] = StateInfo{
			OnTrace:         true,
			BranchingDegree: req.System.BranchingDegree(player),
			CanWinAlone:     canWin[i],
		}
	}
	return nil
}

// playerResponsibility accumulates the weighted marginal contributions
// of players[pi] over all 2^(n-1) coalitions of the other players.
func (e *Engine) playerResponsibility(ctx context.Context, req Request, players []ts.State, pi int, weights []decimal.Decimal) (decimal.Decimal, bool, error) {
	player := players[pi]
	others := make([]ts.State, 0, len(players)-1)
	for i, st := range players {
		if i != pi {
			others = append(others, st)
		}
	}

	total := decimal.Zero
	masks := 1 << len(others)
	for mask := 0; mask < masks; mask++ {
		if mask&0xff == 0 {
			if err := ctx.Err(); err != nil {
				return decimal.Zero, false, err
			}
		}

		coalition := make(map[ts.State]struct{}, bits.OnesCount(uint(mask))+1)
		for b, st := range others {
			if mask&(1<<b) != 0 {
				coalition[st] = struct{}{}
			}
		}

		// marginal contribution is positive exactly when the coalition
		// loses without the player and wins with them
		if coop.Pessimistic(req.System, req.Trace, coalition) == 1 {
			continue
		}
		coalition[player] = struct{}{}
		if coop.Pessimistic(req.System, req.Trace, coalition) == 1 {
			total = total.Add(weights[bits.OnesCount(uint(mask))])
		}
	}

	singleton := map[ts.State]struct{}{player: {}}
	alone := coop.Pessimistic(req.System, req.Trace, singleton) == 1

	return total, alone, nil
}
