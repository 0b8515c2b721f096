package service

import (
	"context"

	"github.com/Jared747/follower-fight-project/internal/arena"
	"github.com/Jared747/follower-fight-project/internal/compose"
	"github.com/Jared747/follower-fight-project/internal/constants"
	"github.com/Jared747/follower-fight-project/internal/engine"
	"github.com/Jared747/follower-fight-project/internal/logging"
	"github.com/Jared747/follower-fight-project/internal/render"

	"github.com/google/uuid"
)

// Scoreboard is the slice of the ledger the runner needs.
type Scoreboard interface {
	Apply(run *arena.FightResult) error
	Revert(rec *arena.RunRecord) error
	Read() (map[string]arena.ScoreboardEntry, error)
}

// RunHistory is the single-slot undo record store.
type RunHistory interface {
	Record(run *arena.FightResult, artifactRef string) (*arena.RunRecord, error)
	Peek() (*arena.RunRecord, error)
	Clear() error
	UpdateArtifact(artifactRef string) error
}

// ParticipantSource supplies the ordered roster snapshot for one run.
type ParticipantSource interface {
	Participants(ctx context.Context, forceRefresh bool) ([]arena.Participant, error)
}

// BattleRunner wires one environment's collaborators together. One run is
// the unit of work: it executes to completion before another may start.
type BattleRunner struct {
	Roster  ParticipantSource
	Board   Scoreboard
	History RunHistory
	Encoder render.Encoder
	// Audio is optional background music for the render plan.
	Audio      *compose.AudioTrack
	SimOptions engine.Options
}

// BattleOutcome reports a finished run. RenderErr being non-nil means the
// run was scored and recorded but the artifact is missing — an accepted
// terminal state, never rolled back.
type BattleOutcome struct {
	Result      *arena.FightResult
	ArtifactRef string
	RenderErr   error
}

// RunBattle selects participants, simulates the fight, applies the deltas
// to the scoreboard, records the undo slot and hands the render plan to
// the encoder. Scoring commits before the encoder runs; an encoder failure
// or cancellation leaves standings untouched.
func (r *BattleRunner) RunBattle(ctx context.Context, seed int64, forceRefresh bool) (*BattleOutcome, error) {
	participants, err := r.Roster.Participants(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}

	result, err := engine.Simulate(participants, seed, r.SimOptions)
	if err != nil {
		return nil, err
	}
	result.RunID = uuid.NewString()

	if err := r.Board.Apply(result); err != nil {
		return nil, err
	}
	if _, err := r.History.Record(result, ""); err != nil {
		return nil, err
	}
	logging.Info("run applied", logging.Fields{
		constants.LogFieldRunID:  result.RunID,
		constants.LogFieldSeed:   result.Seed,
		constants.LogFieldWinner: result.Winner,
	})

	outcome := &BattleOutcome{Result: result}

	plan, err := compose.Compose(result, r.Audio)
	if err != nil {
		outcome.RenderErr = err
		return outcome, nil
	}
	artifact, err := r.Encoder.Encode(ctx, plan)
	if err != nil {
		// Standings stay committed; only the video is missing.
		logging.Error("render failed, scoring already committed", err, logging.Fields{
			constants.LogFieldRunID: result.RunID,
		})
		outcome.RenderErr = err
		return outcome, nil
	}
	outcome.ArtifactRef = artifact
	if err := r.History.UpdateArtifact(artifact); err != nil {
		logging.Error("failed to attach artifact to run record", err, logging.Fields{
			constants.LogFieldRunID:    result.RunID,
			constants.LogFieldArtifact: artifact,
		})
	}
	return outcome, nil
}
