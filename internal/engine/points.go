package engine

import "github.com/Jared747/follower-fight-project/internal/arena"

// Point awards. The placement ladder follows the long-standing scoreboard
// rule (last place earns 1, first place earns the field size) and the
// winner additionally takes a base award plus a margin bonus. Every award
// is non-negative and the margin bonus grows monotonically with margin.
const (
	// WinnerBasePoints is the flat award on top of first placement.
	WinnerBasePoints = 2
	// MarginDivisor converts margin (remaining health on a knockout,
	// damage difference on a decision) into bonus points.
	MarginDivisor = 10
	// DrawAwardTotal is split evenly between drawn fighters.
	DrawAwardTotal = 2
)

// computeDeltas turns final fight state into per-participant scoreboard
// deltas. The ledger applies and reverts exactly these numbers.
func computeDeltas(fc *fightContext, winner *fighterState, draw bool) map[string]arena.Delta {
	total := len(fc.fighters)
	deltas := make(map[string]arena.Delta, total)

	drawnCount := 0
	if draw {
		for _, f := range fc.fighters {
			if f.order == 0 {
				drawnCount++
			}
		}
	}

	for _, f := range fc.fighters {
		var d arena.Delta
		switch {
		case draw && f.order == 0:
			d.Draws = 1
			if drawnCount > 0 {
				d.Points = DrawAwardTotal / drawnCount
			}
		case !draw && f == winner:
			d.Wins = 1
			d.Points = placementAward(total, f.order) + WinnerBasePoints + marginBonus(fc, winner)
		default:
			d.Losses = 1
			d.Points = placementAward(total, f.order)
		}
		deltas[f.p.Handle] = d
	}
	return deltas
}

// placementAward gives last place 1 point and first place `total` points.
func placementAward(total, order int) int {
	if order <= 0 {
		return 0
	}
	award := total - order + 1
	if award < 0 {
		award = 0
	}
	return award
}

// marginBonus measures how decisively the winner won: remaining health on
// a knockout, damage-dealt difference over the best rival otherwise.
func marginBonus(fc *fightContext, winner *fighterState) int {
	margin := 0.0
	if winner.alive && len(fc.aliveIndices()) == 1 {
		margin = winner.health
	} else {
		bestRival := 0.0
		for _, f := range fc.fighters {
			if f == winner {
				continue
			}
			if f.damageDealt > bestRival {
				bestRival = f.damageDealt
			}
		}
		margin = winner.damageDealt - bestRival
	}
	if margin < 0 {
		margin = 0
	}
	return int(margin) / MarginDivisor
}
