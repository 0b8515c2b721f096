package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Jared747/follower-fight-project/internal/arena"
)

func testRun(id string) *arena.FightResult {
	return &arena.FightResult{
		RunID:  id,
		Seed:   42,
		Winner: "a",
		Deltas: map[string]arena.Delta{
			"a": {Points: 5, Wins: 1},
			"b": {Points: 1, Losses: 1},
		},
	}
}

func TestLedger_ApplyThenRead(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "scoreboard.json"))
	if err := l.Apply(testRun("r1")); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	entries, err := l.Read()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	want := map[string]arena.ScoreboardEntry{
		"a": {Points: 5, Wins: 1, Runs: 1},
		"b": {Points: 1, Losses: 1, Runs: 1},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestLedger_DuplicateRunRejected(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "scoreboard.json"))
	if err := l.Apply(testRun("r1")); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	before, _ := l.Read()
	if err := l.Apply(testRun("r1")); !errors.Is(err, ErrDuplicateRun) {
		t.Fatalf("expected ErrDuplicateRun, got %v", err)
	}
	after, _ := l.Read()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("rejected duplicate still mutated the ledger")
	}
}

func TestLedger_RevertInvertsApply(t *testing.T) {
	dir := t.TempDir()
	l := New(filepath.Join(dir, "scoreboard.json"))
	h := NewHistory(filepath.Join(dir, "last_run.json"))

	// Seed the board with an unrelated prior run.
	if err := l.Apply(testRun("r0")); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	before, _ := l.Read()

	run := testRun("r1")
	if err := l.Apply(run); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	rec, err := h.Record(run, "battles/dev/battle_1.json")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := l.Revert(rec); err != nil {
		t.Fatalf("revert failed: %v", err)
	}
	after, _ := l.Read()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("revert did not restore pre-run values: %+v vs %+v", before, after)
	}
}

func TestLedger_RevertRemovesEntriesCreatedByTheRun(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "scoreboard.json"))
	run := testRun("r1")
	if err := l.Apply(run); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if err := l.Revert(&arena.RunRecord{RunID: run.RunID, Deltas: run.Deltas}); err != nil {
		t.Fatalf("revert failed: %v", err)
	}
	entries, _ := l.Read()
	if len(entries) != 0 {
		t.Fatalf("expected empty board after reverting its only run, got %+v", entries)
	}
}

func TestLedger_Conservation(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "scoreboard.json"))
	runs := []*arena.FightResult{testRun("r1"), testRun("r2"), testRun("r3")}
	for _, r := range runs {
		if err := l.Apply(r); err != nil {
			t.Fatalf("apply failed: %v", err)
		}
	}
	if err := l.Revert(&arena.RunRecord{RunID: "r2", Deltas: runs[1].Deltas}); err != nil {
		t.Fatalf("revert failed: %v", err)
	}

	entries, _ := l.Read()
	total := 0
	for _, e := range entries {
		total += e.Points
	}
	// Two applied runs remain, 6 points each.
	if total != 12 {
		t.Fatalf("points not conserved: total %d, want 12", total)
	}
	applied, _ := l.AppliedRuns()
	if !reflect.DeepEqual(applied, []string{"r1", "r3"}) {
		t.Fatalf("unexpected applied set: %v", applied)
	}
	for _, e := range entries {
		if e.Runs != e.Wins+e.Losses+e.Draws {
			t.Fatalf("runs != wins+losses+draws for entry %+v", e)
		}
	}
}

func TestLedger_RevertUnknownRun(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "scoreboard.json"))
	err := l.Revert(&arena.RunRecord{RunID: "ghost", Deltas: map[string]arena.Delta{}})
	if !errors.Is(err, ErrRunNotApplied) {
		t.Fatalf("expected ErrRunNotApplied, got %v", err)
	}
}

func TestLedger_CorruptFileBlocksEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoreboard.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	l := New(path)
	if _, err := l.Read(); !errors.Is(err, ErrLedgerCorrupt) {
		t.Fatalf("expected ErrLedgerCorrupt on read, got %v", err)
	}
	if err := l.Apply(testRun("r1")); !errors.Is(err, ErrLedgerCorrupt) {
		t.Fatalf("expected ErrLedgerCorrupt on apply, got %v", err)
	}
	if err := l.Revert(&arena.RunRecord{RunID: "r1"}); !errors.Is(err, ErrLedgerCorrupt) {
		t.Fatalf("expected ErrLedgerCorrupt on revert, got %v", err)
	}
	// The corrupt document must survive untouched, never auto-reset.
	b, _ := os.ReadFile(path)
	if string(b) != "{not json" {
		t.Fatalf("corrupt ledger was rewritten")
	}
}

func TestLedger_AtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	l := New(filepath.Join(dir, "scoreboard.json"))
	if err := l.Apply(testRun("r1")); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	files, _ := os.ReadDir(dir)
	if len(files) != 1 || files[0].Name() != "scoreboard.json" {
		t.Fatalf("expected only the ledger document, found %d files", len(files))
	}
}

func TestHistory_SingleSlot(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "last_run.json"))
	if _, err := h.Record(testRun("rA"), "a.json"); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if _, err := h.Record(testRun("rB"), "b.json"); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	rec, err := h.Peek()
	if err != nil {
		t.Fatalf("peek failed: %v", err)
	}
	if rec == nil || rec.RunID != "rB" {
		t.Fatalf("expected only the most recent run to remain, got %+v", rec)
	}
	if err := h.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	rec, err = h.Peek()
	if err != nil {
		t.Fatalf("peek failed: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected empty slot after clear, got %+v", rec)
	}
	// Clearing an empty slot stays a no-op.
	if err := h.Clear(); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
}

func TestHistory_UpdateArtifact(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "last_run.json"))
	if _, err := h.Record(testRun("r1"), ""); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := h.UpdateArtifact("battles/dev/battle_9.json"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	rec, _ := h.Peek()
	if rec.ArtifactRef != "battles/dev/battle_9.json" {
		t.Fatalf("artifact ref not updated: %q", rec.ArtifactRef)
	}
}
