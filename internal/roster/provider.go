package roster

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Jared747/follower-fight-project/internal/arena"
	"github.com/Jared747/follower-fight-project/internal/logging"
	"github.com/Jared747/follower-fight-project/internal/storage"
)

// ErrRosterUnavailable means the live fetch failed and no cached roster
// exists to fall back to. A run cannot start without participants.
var ErrRosterUnavailable = errors.New("roster unavailable and no cache exists")

// FetchFunc pulls the live follower list from the external social network.
// The provider treats it as slow and failure-prone.
type FetchFunc func(ctx context.Context) ([]arena.Participant, error)

// Provider hands ordered participant snapshots to the simulator: live
// fetch when due, cached rows otherwise, and a cache fallback whenever the
// live fetch is unavailable.
type Provider struct {
	repo   storage.Repository
	fetch  FetchFunc
	maxAge time.Duration
}

func NewProvider(repo storage.Repository, fetch FetchFunc, maxAge time.Duration) *Provider {
	return &Provider{repo: repo, fetch: fetch, maxAge: maxAge}
}

// Participants returns the roster snapshot for one run, with each entry's
// active modifiers already attached from the customization store.
// forceRefresh skips the cache-freshness check but still falls back to the
// cache when the live fetch fails.
func (p *Provider) Participants(ctx context.Context, forceRefresh bool) ([]arena.Participant, error) {
	if !forceRefresh && p.maxAge > 0 {
		fetchedAt, err := p.repo.RosterFetchedAt()
		if err == nil && !fetchedAt.IsZero() && time.Since(fetchedAt) < p.maxAge {
			return p.fromCache()
		}
	}

	if p.fetch != nil {
		live, err := p.fetch(ctx)
		if err == nil && len(live) > 0 {
			if cacheErr := p.storeCache(live); cacheErr != nil {
				logging.Error("failed to cache refreshed roster", cacheErr, nil)
			}
			return p.attachModifiers(live)
		}
		if err != nil {
			logging.Error("live roster fetch failed, falling back to cache", err, nil)
		}
	}

	participants, cacheErr := p.fromCache()
	if cacheErr != nil {
		return nil, cacheErr
	}
	if len(participants) == 0 {
		return nil, ErrRosterUnavailable
	}
	return participants, nil
}

// Refresh forces a live fetch and cache replacement, for the scheduled
// refresh cadence in serve mode.
func (p *Provider) Refresh(ctx context.Context) (int, error) {
	if p.fetch == nil {
		return 0, ErrRosterUnavailable
	}
	live, err := p.fetch(ctx)
	if err != nil {
		return 0, err
	}
	if err := p.storeCache(live); err != nil {
		return 0, err
	}
	return len(live), nil
}

func (p *Provider) storeCache(participants []arena.Participant) error {
	now := time.Now().UTC()
	entries := make([]storage.RosterEntry, 0, len(participants))
	for _, part := range participants {
		entries = append(entries, storage.RosterEntry{
			Handle:      part.Handle,
			DisplayName: part.DisplayName,
			AvatarRef:   part.AvatarRef,
			Strength:    part.Strength,
			FetchedAt:   now,
		})
	}
	return p.repo.ReplaceRoster(entries)
}

func (p *Provider) fromCache() ([]arena.Participant, error) {
	rows, err := p.repo.GetRoster()
	if err != nil {
		return nil, err
	}
	participants := make([]arena.Participant, 0, len(rows))
	for _, row := range rows {
		participants = append(participants, arena.Participant{
			Handle:      row.Handle,
			DisplayName: row.DisplayName,
			AvatarRef:   row.AvatarRef,
			Strength:    row.Strength,
		})
	}
	return p.attachModifiers(participants)
}

// attachModifiers snapshots each participant's active power-ups from the
// customization store. Rows with unknown kinds are skipped; the store is
// never mutated here.
func (p *Provider) attachModifiers(participants []arena.Participant) ([]arena.Participant, error) {
	rows, err := p.repo.GetAllCustomizations()
	if err != nil {
		return nil, err
	}
	byHandle := make(map[string][]arena.Modifier, len(rows))
	for _, row := range rows {
		kind := arena.ModifierKind(row.Kind)
		switch kind {
		case arena.ModifierStrengthAdd, arena.ModifierStrengthMult,
			arena.ModifierVarianceAdd, arena.ModifierVarianceMult:
		default:
			continue
		}
		m := arena.Modifier{Kind: kind, Magnitude: row.Magnitude}
		if row.ExpiresAt != nil {
			m.ExpiresAt = *row.ExpiresAt
		}
		byHandle[row.Handle] = append(byHandle[row.Handle], m)
	}
	for i := range participants {
		participants[i].Modifiers = byHandle[participants[i].Handle]
	}
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].Handle < participants[j].Handle
	})
	return participants, nil
}
