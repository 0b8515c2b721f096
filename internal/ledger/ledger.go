package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Jared747/follower-fight-project/internal/arena"
)

var (
	// ErrDuplicateRun rejects a second apply of the same run identifier so
	// retries after a partial failure never double-count.
	ErrDuplicateRun = errors.New("run was already applied to the scoreboard")
	// ErrNoRunToRevert is the benign "nothing to undo" status.
	ErrNoRunToRevert = errors.New("no run to revert")
	// ErrLedgerCorrupt blocks apply and revert until the durable document
	// is repaired externally. The ledger never silently resets itself.
	ErrLedgerCorrupt = errors.New("scoreboard ledger is corrupt")
	// ErrRunNotApplied rejects reverting a record whose run identifier is
	// not in the applied set (for example after an external repair).
	ErrRunNotApplied = errors.New("run is not in the applied set")
)

// Ledger is the durable cumulative scoreboard for one environment. All
// writes go through an atomic replace so a concurrent reader observes
// either the pre-run or the post-run document, never a torn write.
type Ledger struct {
	path string
}

func New(path string) *Ledger {
	return &Ledger{path: path}
}

// document is the on-disk shape. AppliedRuns carries every currently
// applied (non-reverted) run identifier for idempotency checks.
type document struct {
	Entries     map[string]arena.ScoreboardEntry `json:"entries"`
	AppliedRuns []string                         `json:"applied_runs"`
}

func (l *Ledger) load() (*document, error) {
	b, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return &document{Entries: map[string]arena.ScoreboardEntry{}}, nil
	}
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLedgerCorrupt, l.path, err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]arena.ScoreboardEntry{}
	}
	return &doc, nil
}

// Read returns the current standings keyed by participant handle.
func (l *Ledger) Read() (map[string]arena.ScoreboardEntry, error) {
	doc, err := l.load()
	if err != nil {
		return nil, err
	}
	return doc.Entries, nil
}

// AppliedRuns returns the identifiers of currently applied runs.
func (l *Ledger) AppliedRuns() ([]string, error) {
	doc, err := l.load()
	if err != nil {
		return nil, err
	}
	return doc.AppliedRuns, nil
}

// Apply adds a run's deltas to the standings. Applying a run identifier
// that is already present fails with ErrDuplicateRun and leaves the
// document untouched.
func (l *Ledger) Apply(run *arena.FightResult) error {
	if run.RunID == "" {
		return errors.New("run has no identifier")
	}
	doc, err := l.load()
	if err != nil {
		return err
	}
	for _, id := range doc.AppliedRuns {
		if id == run.RunID {
			return ErrDuplicateRun
		}
	}
	for handle, d := range run.Deltas {
		e := doc.Entries[handle]
		e.Points += d.Points
		e.Wins += d.Wins
		e.Losses += d.Losses
		e.Draws += d.Draws
		e.Runs++
		doc.Entries[handle] = e
	}
	doc.AppliedRuns = append(doc.AppliedRuns, run.RunID)
	return writeJSONAtomic(l.path, doc)
}

// Revert subtracts exactly the deltas a RunRecord captured, restoring the
// pre-run values for every participant of that run. Entries that drop back
// to all zeroes are removed so the document matches its pre-run shape.
func (l *Ledger) Revert(rec *arena.RunRecord) error {
	if rec == nil {
		return ErrNoRunToRevert
	}
	doc, err := l.load()
	if err != nil {
		return err
	}
	found := -1
	for i, id := range doc.AppliedRuns {
		if id == rec.RunID {
			found = i
			break
		}
	}
	if found < 0 {
		return fmt.Errorf("%w: %s", ErrRunNotApplied, rec.RunID)
	}
	for handle, d := range rec.Deltas {
		e := doc.Entries[handle]
		e.Points -= d.Points
		e.Wins -= d.Wins
		e.Losses -= d.Losses
		e.Draws -= d.Draws
		e.Runs--
		if e == (arena.ScoreboardEntry{}) {
			delete(doc.Entries, handle)
		} else {
			doc.Entries[handle] = e
		}
	}
	doc.AppliedRuns = append(doc.AppliedRuns[:found], doc.AppliedRuns[found+1:]...)
	return writeJSONAtomic(l.path, doc)
}
