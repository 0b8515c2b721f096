package engine

import (
	"time"

	"github.com/Jared747/follower-fight-project/internal/arena"
)

// --- Modifier helpers --------------------------------------------------
//
// Each modifier kind has a pure effect over strength or variance. New kinds
// extend the switch, not the call sites.

// DefaultVariance is the base half-width of the damage spread before any
// variance modifiers apply.
const DefaultVariance = 6.0

func strengthWithModifiers(p *arena.Participant, now time.Time) float64 {
	s := p.Strength
	if s <= 0 {
		s = 10
	}
	for _, m := range p.Modifiers {
		if !m.Active(now) {
			continue
		}
		switch m.Kind {
		case arena.ModifierStrengthAdd:
			s += m.Magnitude
		case arena.ModifierStrengthMult:
			s *= m.Magnitude
		}
	}
	if s < 0 {
		s = 0
	}
	return s
}

func varianceWithModifiers(p *arena.Participant, now time.Time) float64 {
	v := DefaultVariance
	for _, m := range p.Modifiers {
		if !m.Active(now) {
			continue
		}
		switch m.Kind {
		case arena.ModifierVarianceAdd:
			v += m.Magnitude
		case arena.ModifierVarianceMult:
			v *= m.Magnitude
		}
	}
	if v < 0 {
		v = 0
	}
	return v
}
