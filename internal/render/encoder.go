package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Jared747/follower-fight-project/internal/compose"
)

// ErrRender marks failures at the media-encoder boundary. By the time an
// encoder runs, the scoreboard apply and the run record are already
// committed; callers surface this error but never roll scoring back.
var ErrRender = errors.New("media render failed")

// Encoder realizes a render plan into a playable artifact and returns a
// reference to it. Implementations are long-running and must honor ctx
// cancellation.
type Encoder interface {
	Encode(ctx context.Context, plan *compose.RenderPlan) (artifactRef string, err error)
}

// PlanFileEncoder hands the declarative plan to the external renderer by
// writing it as a numbered JSON document into the environment's battles
// directory. The written path doubles as the artifact reference.
type PlanFileEncoder struct {
	Dir string
}

func NewPlanFileEncoder(dir string) *PlanFileEncoder {
	return &PlanFileEncoder{Dir: dir}
}

func (e *PlanFileEncoder) Encode(ctx context.Context, plan *compose.RenderPlan) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	if plan == nil {
		return "", fmt.Errorf("%w: nil plan", ErrRender)
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	path := filepath.Join(e.Dir, fmt.Sprintf("battle_%03d.json", e.nextBattleNumber()))
	b, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return path, nil
}

// nextBattleNumber continues the battle_NNN sequence already on disk.
func (e *PlanFileEncoder) nextBattleNumber() int {
	matches, err := filepath.Glob(filepath.Join(e.Dir, "battle_*.json"))
	if err != nil {
		return 1
	}
	max := 0
	for _, m := range matches {
		var n int
		if _, err := fmt.Sscanf(filepath.Base(m), "battle_%03d.json", &n); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

// DiscardArtifact removes a rendered artifact during an undo. A missing
// file is fine; the run may have been scored without a finished render.
func DiscardArtifact(ref string) error {
	if ref == "" {
		return nil
	}
	err := os.Remove(ref)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
