package service

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Jared747/follower-fight-project/internal/arena"
	"github.com/Jared747/follower-fight-project/internal/compose"
	"github.com/Jared747/follower-fight-project/internal/engine"
	"github.com/Jared747/follower-fight-project/internal/ledger"
	"github.com/Jared747/follower-fight-project/internal/render"
)

type stubRoster struct {
	participants []arena.Participant
	err          error
}

func (s *stubRoster) Participants(ctx context.Context, forceRefresh bool) ([]arena.Participant, error) {
	return s.participants, s.err
}

type stubEncoder struct {
	artifact string
	err      error
	calls    int
}

func (s *stubEncoder) Encode(ctx context.Context, plan *compose.RenderPlan) (string, error) {
	s.calls++
	return s.artifact, s.err
}

func newRunner(t *testing.T, enc render.Encoder) (*BattleRunner, *ledger.Ledger, *ledger.History) {
	t.Helper()
	dir := t.TempDir()
	board := ledger.New(filepath.Join(dir, "scoreboard.json"))
	history := ledger.NewHistory(filepath.Join(dir, "last_run.json"))
	runner := &BattleRunner{
		Roster: &stubRoster{participants: []arena.Participant{
			{Handle: "a", Strength: 10},
			{Handle: "b", Strength: 8},
		}},
		Board:      board,
		History:    history,
		Encoder:    enc,
		SimOptions: engine.Options{Now: time.Unix(1700000000, 0)},
	}
	return runner, board, history
}

func TestRunBattle_AppliesRecordsAndRenders(t *testing.T) {
	enc := &stubEncoder{artifact: "battles/dev/battle_001.json"}
	runner, board, history := newRunner(t, enc)

	outcome, err := runner.RunBattle(context.Background(), 42, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.RenderErr != nil {
		t.Fatalf("unexpected render error: %v", outcome.RenderErr)
	}
	if outcome.ArtifactRef != enc.artifact {
		t.Fatalf("unexpected artifact ref %q", outcome.ArtifactRef)
	}

	entries, _ := board.Read()
	if len(entries) != 2 {
		t.Fatalf("expected both fighters on the board, got %+v", entries)
	}
	rec, _ := history.Peek()
	if rec == nil || rec.RunID != outcome.Result.RunID {
		t.Fatalf("expected the run in the undo slot, got %+v", rec)
	}
	if rec.ArtifactRef != enc.artifact {
		t.Fatalf("artifact not attached to the run record: %q", rec.ArtifactRef)
	}
}

func TestRunBattle_RenderFailureDoesNotRollBackScoring(t *testing.T) {
	enc := &stubEncoder{err: render.ErrRender}
	runner, board, history := newRunner(t, enc)

	outcome, err := runner.RunBattle(context.Background(), 42, false)
	if err != nil {
		t.Fatalf("a render failure must not fail the run: %v", err)
	}
	if !errors.Is(outcome.RenderErr, render.ErrRender) {
		t.Fatalf("expected the render error surfaced, got %v", outcome.RenderErr)
	}
	entries, _ := board.Read()
	if len(entries) != 2 {
		t.Fatalf("scoring must stay committed after a render failure")
	}
	rec, _ := history.Peek()
	if rec == nil {
		t.Fatalf("run record must stay committed after a render failure")
	}
	if rec.ArtifactRef != "" {
		t.Fatalf("no artifact should be attached, got %q", rec.ArtifactRef)
	}
}

func TestRunBattle_RosterErrorIsFatal(t *testing.T) {
	runner, board, _ := newRunner(t, &stubEncoder{})
	runner.Roster = &stubRoster{err: errors.New("roster unavailable")}

	if _, err := runner.RunBattle(context.Background(), 1, false); err == nil {
		t.Fatalf("expected the roster error to propagate")
	}
	entries, _ := board.Read()
	if len(entries) != 0 {
		t.Fatalf("nothing may be persisted when the roster fails")
	}
}

func TestRunBattle_InsufficientParticipantsPersistsNothing(t *testing.T) {
	runner, board, history := newRunner(t, &stubEncoder{})
	runner.Roster = &stubRoster{participants: []arena.Participant{{Handle: "solo", Strength: 10}}}

	if _, err := runner.RunBattle(context.Background(), 1, false); !errors.Is(err, engine.ErrInsufficientParticipants) {
		t.Fatalf("expected ErrInsufficientParticipants, got %v", err)
	}
	entries, _ := board.Read()
	rec, _ := history.Peek()
	if len(entries) != 0 || rec != nil {
		t.Fatalf("nothing may be persisted when the simulation preconditions fail")
	}
}

func TestRevertLastRun_RestoresPreRunState(t *testing.T) {
	enc := &stubEncoder{artifact: filepath.Join(t.TempDir(), "battle_001.json")}
	runner, board, history := newRunner(t, enc)

	before, _ := board.Read()
	if _, err := runner.RunBattle(context.Background(), 42, false); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	rec, err := RevertLastRun(board, history)
	if err != nil {
		t.Fatalf("revert failed: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected the reverted record back")
	}
	after, _ := board.Read()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("revert did not restore the pre-run scoreboard: %+v", after)
	}

	// Second revert has nothing left to undo.
	if _, err := RevertLastRun(board, history); !errors.Is(err, ledger.ErrNoRunToRevert) {
		t.Fatalf("expected ErrNoRunToRevert on second revert, got %v", err)
	}
}

func TestRunBattle_OnlyMostRecentRunIsRevertible(t *testing.T) {
	runner, board, history := newRunner(t, &stubEncoder{})

	oA, err := runner.RunBattle(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("run A failed: %v", err)
	}
	oB, err := runner.RunBattle(context.Background(), 2, false)
	if err != nil {
		t.Fatalf("run B failed: %v", err)
	}

	rec, err := RevertLastRun(board, history)
	if err != nil {
		t.Fatalf("revert failed: %v", err)
	}
	if rec.RunID != oB.Result.RunID {
		t.Fatalf("expected run B to be the revertible one, got %s", rec.RunID)
	}
	// Run A's points remain applied.
	entries, _ := board.Read()
	total := 0
	for _, e := range entries {
		total += e.Points
	}
	wantTotal := 0
	for _, d := range oA.Result.Deltas {
		wantTotal += d.Points
	}
	if total != wantTotal {
		t.Fatalf("conservation broken: board total %d, applied deltas %d", total, wantTotal)
	}
}
