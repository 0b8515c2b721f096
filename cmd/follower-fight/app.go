package main

import (
	"os"

	"github.com/Jared747/follower-fight-project/internal/compose"
	"github.com/Jared747/follower-fight-project/internal/config"
	"github.com/Jared747/follower-fight-project/internal/constants"
	"github.com/Jared747/follower-fight-project/internal/engine"
	"github.com/Jared747/follower-fight-project/internal/ledger"
	"github.com/Jared747/follower-fight-project/internal/render"
	"github.com/Jared747/follower-fight-project/internal/roster"
	"github.com/Jared747/follower-fight-project/internal/service"
	"github.com/Jared747/follower-fight-project/internal/storage"
)

// app bundles the collaborators for one environment. Every command builds
// one and tears it down before exiting; environments never share state.
type app struct {
	settings config.Settings
	repo     storage.Repository
	board    *ledger.Ledger
	history  *ledger.History
	provider *roster.Provider
}

func newApp(envOverride string) (*app, error) {
	settings := config.Load(envOverride)
	if err := settings.EnsureDirs(); err != nil {
		return nil, err
	}

	db, err := storage.OpenAndMigrate(settings.StorePath)
	if err != nil {
		return nil, err
	}
	repo := storage.NewSQLiteRepository(db)

	return &app{
		settings: settings,
		repo:     repo,
		board:    ledger.New(settings.ScoreboardPath),
		history:  ledger.NewHistory(settings.LastRunPath),
		provider: roster.NewProvider(repo, roster.FileFetch(settings.FollowersFile), settings.RosterMaxAge),
	}, nil
}

func (a *app) runner() *service.BattleRunner {
	return &service.BattleRunner{
		Roster:     a.provider,
		Board:      a.board,
		History:    a.history,
		Encoder:    render.NewPlanFileEncoder(a.settings.BattlesDir),
		Audio:      audioTrack(a.settings),
		SimOptions: engine.Options{MaxRounds: a.settings.MaxRounds},
	}
}

// audioTrack returns the configured background track, or nil when the
// file is absent so plans render silent instead of failing.
func audioTrack(s config.Settings) *compose.AudioTrack {
	if s.SoundPath == "" {
		return nil
	}
	if _, err := os.Stat(s.SoundPath); err != nil {
		return nil
	}
	return &compose.AudioTrack{
		Source:   s.SoundPath,
		Duration: constants.DefaultSoundDuration,
	}
}
