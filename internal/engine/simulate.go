package engine

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/Jared747/follower-fight-project/internal/arena"
)

var (
	ErrInsufficientParticipants = errors.New("at least two distinct participants are required")
)

// RoundDuration is the simulated wall time one round of exchanges takes.
// It only feeds FightResult.Duration; the compositor derives real segment
// timing on its own.
const RoundDuration = 1500 * time.Millisecond

// Options tunes a simulation. Zero values fall back to defaults so callers
// can pass Options{} for standard rules.
type Options struct {
	MaxRounds  int
	BaseHealth float64
	// Now anchors modifier expiry checks. Defaults to time.Now; tests pin
	// it so expired-modifier behavior is reproducible.
	Now time.Time
}

const (
	DefaultMaxRounds  = 200
	DefaultBaseHealth = 100.0
)

func (o Options) withDefaults() Options {
	if o.MaxRounds <= 0 {
		o.MaxRounds = DefaultMaxRounds
	}
	if o.BaseHealth <= 0 {
		o.BaseHealth = DefaultBaseHealth
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// --- Fighter state ----------------------------------------------------

type fighterState struct {
	p           *arena.Participant
	health      float64
	damageDealt float64
	alive       bool
	// order is the final placement (1 = winner), assigned on elimination
	// or at decision time.
	order int
}

type fightContext struct {
	rng      *rand.Rand
	opts     Options
	fighters []*fighterState
	events   []arena.RoundEvent
	round    int
}

// Simulate runs a deterministic elimination fight among the given
// participants. Identical (participants, seed) inputs always produce an
// identical event sequence and result; the function has no side effects.
// The returned result carries an empty RunID — the caller assigns one
// before the run is applied anywhere.
func Simulate(participants []arena.Participant, seed int64, opts Options) (*arena.FightResult, error) {
	if err := validateParticipants(participants); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	fc := &fightContext{
		rng:      rand.New(rand.NewSource(seed)),
		opts:     opts,
		fighters: make([]*fighterState, 0, len(participants)),
		events:   make([]arena.RoundEvent, 0, 64),
	}
	for i := range participants {
		fc.fighters = append(fc.fighters, &fighterState{
			p:      &participants[i],
			health: opts.BaseHealth,
			alive:  true,
		})
	}

	fc.run()

	winner, draw := fc.decide()
	result := &arena.FightResult{
		Seed:        seed,
		Rounds:      fc.round,
		Events:      fc.events,
		Draw:        draw,
		DamageDealt: make(map[string]float64, len(fc.fighters)),
		Duration:    time.Duration(fc.round) * RoundDuration,
	}
	if draw {
		result.Winner = arena.DrawWinner
	} else {
		result.Winner = winner.p.Handle
	}
	for _, f := range fc.fighters {
		result.DamageDealt[f.p.Handle] = round1(f.damageDealt)
	}
	result.Deltas = computeDeltas(fc, winner, draw)
	return result, nil
}

func validateParticipants(participants []arena.Participant) error {
	if len(participants) < 2 {
		return ErrInsufficientParticipants
	}
	seen := make(map[string]struct{}, len(participants))
	for i := range participants {
		h := strings.TrimSpace(participants[i].Handle)
		if h == "" {
			return ErrInsufficientParticipants
		}
		if _, dup := seen[h]; dup {
			return ErrInsufficientParticipants
		}
		seen[h] = struct{}{}
	}
	return nil
}

// run advances rounds until a single fighter stands or the round cap hits.
func (fc *fightContext) run() {
	nextOrder := len(fc.fighters)
	for fc.round < fc.opts.MaxRounds {
		alive := fc.aliveIndices()
		if len(alive) <= 1 {
			break
		}
		fc.round++

		ai, bi := fc.pickPair(alive)
		a := fc.fighters[ai]
		b := fc.fighters[bi]

		dmgA := fc.rollDamage(a)
		dmgB := fc.rollDamage(b)

		// Both sides land simultaneously, matching a real exchange.
		b.health -= dmgA
		a.damageDealt += dmgA
		a.health -= dmgB
		b.damageDealt += dmgB

		fc.addExchange(a, b, dmgA)
		fc.addExchange(b, a, dmgB)

		// Lower current health falls first on a double knockout.
		first, second := a, b
		if first.health > second.health {
			first, second = second, first
		}
		for _, f := range []*fighterState{first, second} {
			if f.alive && f.health <= 0 {
				f.alive = false
				f.order = nextOrder
				nextOrder--
				fc.addElimination(f)
			}
		}
	}
}

// decide resolves the winner after the loop: last one standing, or the
// cumulative-damage tie-break at the round cap. An exact damage tie among
// all survivors is a declared draw.
func (fc *fightContext) decide() (winner *fighterState, draw bool) {
	alive := fc.aliveIndices()
	switch len(alive) {
	case 0:
		// Double knockout in the final exchange: the fighter assigned the better
		// placement already points at the winner.
		for _, f := range fc.fighters {
			if f.order == 1 {
				fc.addDecision(f, "wins by surviving longest")
				return f, false
			}
		}
		return nil, true
	case 1:
		w := fc.fighters[alive[0]]
		w.order = 1
		fc.addDecision(w, "wins by knockout")
		return w, false
	}

	// Round cap reached with several fighters standing: higher cumulative
	// damage dealt wins.
	best := fc.fighters[alive[0]]
	tied := false
	for _, idx := range alive[1:] {
		f := fc.fighters[idx]
		if f.damageDealt > best.damageDealt {
			best = f
			tied = false
		} else if f.damageDealt == best.damageDealt {
			tied = true
		}
	}
	if tied {
		// Placement for drawn survivors stays 0; eliminated fighters keep
		// their elimination order.
		fc.events = append(fc.events, arena.RoundEvent{
			Round:     fc.round,
			Kind:      arena.EventDecision,
			Narration: "judges call it a draw",
		})
		return nil, true
	}
	fc.rankSurvivorsByDamage(alive)
	fc.addDecision(best, "wins by decision")
	return best, false
}

// rankSurvivorsByDamage assigns placements 1..n to survivors, highest
// damage first. Iteration is index-ordered so ties rank deterministically.
func (fc *fightContext) rankSurvivorsByDamage(alive []int) {
	assigned := make(map[int]bool, len(alive))
	for place := 1; place <= len(alive); place++ {
		bestIdx := -1
		for _, idx := range alive {
			if assigned[idx] {
				continue
			}
			if bestIdx == -1 || fc.fighters[idx].damageDealt > fc.fighters[bestIdx].damageDealt {
				bestIdx = idx
			}
		}
		assigned[bestIdx] = true
		fc.fighters[bestIdx].order = place
	}
}

func (fc *fightContext) aliveIndices() []int {
	out := make([]int, 0, len(fc.fighters))
	for i, f := range fc.fighters {
		if f.alive {
			out = append(out, i)
		}
	}
	return out
}

// pickPair draws two distinct alive fighters from the seeded stream.
func (fc *fightContext) pickPair(alive []int) (int, int) {
	if len(alive) == 2 {
		return alive[0], alive[1]
	}
	i := fc.rng.Intn(len(alive))
	j := fc.rng.Intn(len(alive) - 1)
	if j >= i {
		j++
	}
	return alive[i], alive[j]
}

// rollDamage computes one strike: effective strength plus seeded variance,
// both adjusted by the fighter's active modifiers. Never below 1.
func (fc *fightContext) rollDamage(f *fighterState) float64 {
	strength := strengthWithModifiers(f.p, fc.opts.Now)
	variance := varianceWithModifiers(f.p, fc.opts.Now)
	dmg := strength + (fc.rng.Float64()*2-1)*variance
	if dmg < 1 {
		dmg = 1
	}
	return round1(dmg)
}

// --- Event recording --------------------------------------------------

func (fc *fightContext) addExchange(attacker, defender *fighterState, dmg float64) {
	fc.events = append(fc.events, arena.RoundEvent{
		Round:    fc.round,
		Kind:     arena.EventExchange,
		Attacker: attacker.p.Handle,
		Defender: defender.p.Handle,
		Damage:   dmg,
		Narration: attacker.p.Handle + " hits " + defender.p.Handle +
			" for " + strconv.FormatFloat(dmg, 'f', 1, 64),
	})
}

func (fc *fightContext) addElimination(f *fighterState) {
	fc.events = append(fc.events, arena.RoundEvent{
		Round:      fc.round,
		Kind:       arena.EventElimination,
		Eliminated: f.p.Handle,
		Narration:  f.p.Handle + " is knocked out!",
	})
}

func (fc *fightContext) addDecision(w *fighterState, how string) {
	fc.events = append(fc.events, arena.RoundEvent{
		Round:     fc.round,
		Kind:      arena.EventDecision,
		Attacker:  w.p.Handle,
		Narration: w.p.Handle + " " + how,
	})
}

// round1 keeps damage numbers to one decimal so serialized results are
// stable across platforms.
func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
