package arena

import "time"

// Participant is an immutable-per-run snapshot of a roster entry plus the
// modifiers that were active when the run started. The roster provider owns
// the underlying data; the engine only ever reads these snapshots.
type Participant struct {
	Handle      string     `json:"handle"`
	DisplayName string     `json:"display_name"`
	AvatarRef   string     `json:"avatar_ref"`
	Strength    float64    `json:"strength"`
	Modifiers   []Modifier `json:"modifiers,omitempty"`
}

// ModifierKind is a string alias for the closed set of power-up effects.
// Using a dedicated type instead of plain string makes code safer and
// self-documenting.
type ModifierKind string

const (
	// ModifierStrengthAdd adds its magnitude to the participant's strength.
	ModifierStrengthAdd ModifierKind = "strength_add"
	// ModifierStrengthMult multiplies strength by its magnitude.
	ModifierStrengthMult ModifierKind = "strength_mult"
	// ModifierVarianceAdd widens the per-round damage variance.
	ModifierVarianceAdd ModifierKind = "variance_add"
	// ModifierVarianceMult scales the per-round damage variance.
	ModifierVarianceMult ModifierKind = "variance_mult"
)

// Modifier is one active customization/power-up effect. An expired modifier
// is ignored by the engine; a zero ExpiresAt never expires.
type Modifier struct {
	Kind      ModifierKind `json:"kind"`
	Magnitude float64      `json:"magnitude"`
	ExpiresAt time.Time    `json:"expires_at,omitempty"`
}

// Active reports whether the modifier applies at the given instant.
func (m Modifier) Active(now time.Time) bool {
	return m.ExpiresAt.IsZero() || m.ExpiresAt.After(now)
}

// RoundEventKind tags one entry of the fight timeline.
type RoundEventKind string

const (
	EventExchange    RoundEventKind = "exchange"
	EventElimination RoundEventKind = "elimination"
	EventDecision    RoundEventKind = "decision"
)

// RoundEvent is one discrete step of the simulated fight. Events are ordered
// and carry enough data for the compositor to dramatize the round without
// re-running the simulation.
type RoundEvent struct {
	Round    int            `json:"round"`
	Kind     RoundEventKind `json:"kind"`
	Attacker string         `json:"attacker,omitempty"`
	Defender string         `json:"defender,omitempty"`
	Damage   float64        `json:"damage,omitempty"`
	// Eliminated names the fighter removed by an elimination event.
	Eliminated string `json:"eliminated,omitempty"`
	// Narration is a short human-readable summary line for this event.
	Narration string `json:"narration,omitempty"`
}

// Delta holds the scoreboard changes one run produced for one participant.
// A revert subtracts exactly these numbers, never a recomputation.
type Delta struct {
	Points int `json:"points"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// DrawWinner is the Winner value of a FightResult that ended in a draw.
const DrawWinner = "draw"

// FightResult is the complete, pure outcome of one simulated run. Identical
// (participants, seed) inputs always reproduce an identical FightResult.
type FightResult struct {
	RunID  string `json:"run_id"`
	Seed   int64  `json:"seed"`
	Winner string `json:"winner"`
	Rounds int    `json:"rounds"`
	// Draw is true when no fighter won; Winner is then DrawWinner.
	Draw   bool             `json:"draw"`
	Events []RoundEvent     `json:"events"`
	Deltas map[string]Delta `json:"deltas"`
	// DamageDealt is cumulative damage per handle, used for tie-breaks and
	// surfaced for stats display.
	DamageDealt map[string]float64 `json:"damage_dealt"`
	// Duration is the total simulated fight time.
	Duration time.Duration `json:"duration"`
}

// ScoreboardEntry is one row of the cumulative per-environment standings.
type ScoreboardEntry struct {
	Points int `json:"points"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
	Runs   int `json:"runs"`
}

// RunRecord is the single-slot undo record: the deltas one applied run
// produced plus the rendered artifact it left behind. At most one exists
// per environment and it is consumed exactly once by a revert.
type RunRecord struct {
	RunID       string           `json:"run_id"`
	Seed        int64            `json:"seed"`
	Winner      string           `json:"winner"`
	Deltas      map[string]Delta `json:"deltas"`
	ArtifactRef string           `json:"artifact_ref,omitempty"`
	RecordedAt  time.Time        `json:"recorded_at"`
}
