package constants

import "time"

// Centralized constants for env keys, per-environment file names and the
// read API surface.
const (
	// Environment variable keys
	EnvFightEnv       = "FIGHT_ENV"
	EnvDataDir        = "FIGHT_DATA_DIR"
	EnvBattlesDir     = "FIGHT_BATTLES_DIR"
	EnvServerAddress  = "FIGHT_SERVER_ADDRESS"
	EnvRosterMaxAge   = "FIGHT_ROSTER_MAX_AGE"
	EnvFollowersFile  = "FIGHT_FOLLOWERS_FILE"
	EnvSoundPath      = "FIGHT_SOUND_PATH"
	EnvMaxRounds      = "FIGHT_MAX_ROUNDS"
	EnvRefreshRoster  = "FIGHT_REFRESH_ROSTER"

	// Default environment name
	DefaultEnv = "dev"

	// Per-environment file names
	ScoreboardFile = "scoreboard.json"
	LastRunFile    = "last_run.json"
	StoreFile      = "arena.db"

	// Defaults
	DefaultServerAddress = ":8080"
	DefaultRosterMaxAge  = 6 * time.Hour
	DefaultSoundDuration = 90 * time.Second

	// JSON keys used in API responses
	JSONKeyError  = "error"
	JSONKeyStatus = "status"
)

// Routes used by the read API
const (
	RouteAPIPrefix      = "/api"
	RouteHealth         = "/healthz"
	RouteScoreboard     = "/scoreboard"
	RouteLeaderboard    = "/leaderboard"
	RouteLastRun        = "/last-run"
	RouteParticipants   = "/participants"
	RouteCustomizations = "/customizations"
)

// API error messages
const (
	ErrFailedFetchScoreboard   = "failed to fetch scoreboard"
	ErrFailedFetchLeaderboard  = "failed to fetch leaderboard"
	ErrFailedFetchLastRun      = "failed to fetch last run"
	ErrFailedFetchParticipants = "failed to fetch participants"
	ErrInvalidCustomization    = "invalid customization payload"
)

// Log field names
const (
	LogFieldEnv      = "env"
	LogFieldRunID    = "run_id"
	LogFieldSeed     = "seed"
	LogFieldWinner   = "winner"
	LogFieldArtifact = "artifact"
	LogFieldAddr     = "addr"
)
