package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Jared747/follower-fight-project/internal/arena"
)

// History remembers exactly one run per environment: the deltas the last
// applied run produced plus the artifact it rendered. Recording a new run
// overwrites the slot unconditionally, so only the most recent run is
// undoable.
type History struct {
	path string
}

func NewHistory(path string) *History {
	return &History{path: path}
}

// Record stores the run's deltas and artifact reference, replacing any
// prior record.
func (h *History) Record(run *arena.FightResult, artifactRef string) (*arena.RunRecord, error) {
	rec := &arena.RunRecord{
		RunID:       run.RunID,
		Seed:        run.Seed,
		Winner:      run.Winner,
		Deltas:      run.Deltas,
		ArtifactRef: artifactRef,
		RecordedAt:  time.Now().UTC(),
	}
	if err := writeJSONAtomic(h.path, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Peek returns the stored record, or nil when the slot is empty.
func (h *History) Peek() (*arena.RunRecord, error) {
	b, err := os.ReadFile(h.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec arena.RunRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("%w: run history %s: %v", ErrLedgerCorrupt, h.path, err)
	}
	return &rec, nil
}

// Clear empties the slot. Clearing an already empty slot is a no-op.
func (h *History) Clear() error {
	err := os.Remove(h.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// UpdateArtifact rewrites the stored record with the rendered artifact
// path once encoding finishes. Scoring is already committed by then; a
// missing artifact never blocks the record.
func (h *History) UpdateArtifact(artifactRef string) error {
	rec, err := h.Peek()
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrNoRunToRevert
	}
	rec.ArtifactRef = artifactRef
	return writeJSONAtomic(h.path, rec)
}
