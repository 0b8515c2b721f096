package service

import (
	"github.com/Jared747/follower-fight-project/internal/arena"
	"github.com/Jared747/follower-fight-project/internal/constants"
	"github.com/Jared747/follower-fight-project/internal/ledger"
	"github.com/Jared747/follower-fight-project/internal/logging"
	"github.com/Jared747/follower-fight-project/internal/render"
)

// RevertLastRun undoes the most recent applied run: subtract its recorded
// deltas, discard its artifact and empty the undo slot. A second revert in
// a row fails with ledger.ErrNoRunToRevert because the slot is gone.
func RevertLastRun(board Scoreboard, history RunHistory) (*arena.RunRecord, error) {
	rec, err := history.Peek()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ledger.ErrNoRunToRevert
	}
	if err := board.Revert(rec); err != nil {
		return nil, err
	}
	if err := render.DiscardArtifact(rec.ArtifactRef); err != nil {
		// Standings are already restored; a stale artifact is reported,
		// not fatal.
		logging.Error("failed to discard artifact", err, logging.Fields{
			constants.LogFieldRunID:    rec.RunID,
			constants.LogFieldArtifact: rec.ArtifactRef,
		})
	}
	if err := history.Clear(); err != nil {
		return nil, err
	}
	logging.Info("run reverted", logging.Fields{constants.LogFieldRunID: rec.RunID})
	return rec, nil
}
