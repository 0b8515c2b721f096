package compose

import (
	"errors"
	"time"

	"github.com/Jared747/follower-fight-project/internal/arena"
)

// The compositor converts a fight's event timeline into a declarative
// render plan: ordered visual segments with absolute timestamps plus an
// optional trimmed audio window. It never touches pixels or samples; the
// external media encoder realizes the plan.

// Segment lengths per event kind.
const (
	IntroDuration       = 2 * time.Second
	ExchangeDuration    = 1200 * time.Millisecond
	EliminationDuration = 2 * time.Second
	DecisionDuration    = 2 * time.Second
	// RevealDuration is how long the winner card stays on screen.
	RevealDuration = 5 * time.Second
	// RevealMinWindow guarantees the plan runs at least this long past
	// the reveal start, even if RevealDuration is ever shortened.
	RevealMinWindow = 5 * time.Second
)

type SegmentKind string

const (
	SegmentIntro       SegmentKind = "intro"
	SegmentExchange    SegmentKind = "exchange"
	SegmentElimination SegmentKind = "elimination"
	SegmentDecision    SegmentKind = "decision"
	SegmentReveal      SegmentKind = "winner_reveal"
)

// Segment is one timed visual cue. Start/End are absolute offsets from the
// beginning of the rendered video.
type Segment struct {
	Kind    SegmentKind   `json:"kind"`
	Start   time.Duration `json:"start"`
	End     time.Duration `json:"end"`
	Caption string        `json:"caption,omitempty"`
	// Subjects lists the participant handles this segment focuses on, in
	// attacker-then-defender order for exchanges.
	Subjects []string `json:"subjects,omitempty"`
}

// AudioTrack describes an available background track.
type AudioTrack struct {
	Source   string        `json:"source"`
	Duration time.Duration `json:"duration"`
}

// AudioWindow is the trimmed slice of the track the encoder should lay
// under the video. The window never exceeds the track (no looping).
type AudioWindow struct {
	Source string        `json:"source"`
	Start  time.Duration `json:"start"`
	End    time.Duration `json:"end"`
}

// RenderPlan is the full declarative instruction set for the encoder.
type RenderPlan struct {
	RunID    string        `json:"run_id"`
	Segments []Segment     `json:"segments"`
	Audio    *AudioWindow  `json:"audio,omitempty"`
	Duration time.Duration `json:"duration"`
}

var ErrNoResult = errors.New("cannot compose a plan without a fight result")

// Compose builds the render plan for a finished run. audio may be nil, in
// which case the plan simply has no audio window.
func Compose(run *arena.FightResult, audio *AudioTrack) (*RenderPlan, error) {
	if run == nil {
		return nil, ErrNoResult
	}

	segments := make([]Segment, 0, len(run.Events)+2)
	cursor := time.Duration(0)

	add := func(kind SegmentKind, length time.Duration, caption string, subjects ...string) {
		segments = append(segments, Segment{
			Kind:     kind,
			Start:    cursor,
			End:      cursor + length,
			Caption:  caption,
			Subjects: subjects,
		})
		cursor += length
	}

	add(SegmentIntro, IntroDuration, "FIGHT NIGHT")

	for _, ev := range run.Events {
		switch ev.Kind {
		case arena.EventExchange:
			add(SegmentExchange, ExchangeDuration, ev.Narration, ev.Attacker, ev.Defender)
		case arena.EventElimination:
			add(SegmentElimination, EliminationDuration, ev.Narration, ev.Eliminated)
		case arena.EventDecision:
			add(SegmentDecision, DecisionDuration, ev.Narration, ev.Attacker)
		}
	}

	revealStart := cursor
	revealCaption := "WINNER: " + run.Winner
	if run.Draw {
		revealCaption = "DRAW"
	}
	add(SegmentReveal, RevealDuration, revealCaption, run.Winner)

	// Total covers the full visual timeline and always extends at least
	// RevealMinWindow past the reveal start.
	total := cursor
	if min := revealStart + RevealMinWindow; min > total {
		total = min
	}

	plan := &RenderPlan{
		RunID:    run.RunID,
		Segments: segments,
		Duration: total,
	}
	if audio != nil && audio.Source != "" {
		window := total
		if audio.Duration > 0 && audio.Duration < window {
			window = audio.Duration
		}
		plan.Audio = &AudioWindow{Source: audio.Source, Start: 0, End: window}
	}
	return plan, nil
}
