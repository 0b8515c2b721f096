package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Jared747/follower-fight-project/internal/arena"
)

// FileFetch adapts a followers export file (a JSON array of participant
// records produced by the external fetcher) into a FetchFunc. The session
// handling and network calls live outside this module; by the time a file
// exists the hard part is done.
func FileFetch(path string) FetchFunc {
	return func(ctx context.Context) ([]arena.Participant, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var participants []arena.Participant
		if err := json.Unmarshal(b, &participants); err != nil {
			return nil, fmt.Errorf("invalid followers export %s: %w", path, err)
		}
		return participants, nil
	}
}
