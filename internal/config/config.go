package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Jared747/follower-fight-project/internal/constants"

	"github.com/joho/godotenv"
)

// Settings holds the environment-scoped paths and runtime configuration.
// Environments ("dev", "prod", ...) are strictly isolated namespaces: each
// gets its own data and battles directory and never reads another's files.
type Settings struct {
	Env            string
	DataDir        string
	BattlesDir     string
	ScoreboardPath string
	LastRunPath    string
	StorePath      string
	FollowersFile  string
	SoundPath      string
	ServerAddress  string
	RosterMaxAge   time.Duration
	MaxRounds      int
	RefreshRoster  bool
}

// Load reads .env (when present) and assembles settings for the selected
// environment. envOverride wins over FIGHT_ENV; empty falls back to "dev".
func Load(envOverride string) Settings {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	env := strings.ToLower(strings.TrimSpace(envOverride))
	if env == "" {
		env = strings.ToLower(os.Getenv(constants.EnvFightEnv))
	}
	if env == "" {
		env = constants.DefaultEnv
	}

	dataRoot := getenv(constants.EnvDataDir, "data")
	battlesRoot := getenv(constants.EnvBattlesDir, "battles")
	dataDir := filepath.Join(dataRoot, env)
	battlesDir := filepath.Join(battlesRoot, env)

	maxAge := constants.DefaultRosterMaxAge
	if s := os.Getenv(constants.EnvRosterMaxAge); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			maxAge = d
		}
	}

	maxRounds := 0
	if s := os.Getenv(constants.EnvMaxRounds); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			maxRounds = n
		}
	}

	refresh := false
	switch strings.ToLower(os.Getenv(constants.EnvRefreshRoster)) {
	case "1", "true", "yes", "y":
		refresh = true
	}

	return Settings{
		Env:            env,
		DataDir:        dataDir,
		BattlesDir:     battlesDir,
		ScoreboardPath: filepath.Join(dataDir, constants.ScoreboardFile),
		LastRunPath:    filepath.Join(dataDir, constants.LastRunFile),
		StorePath:      filepath.Join(dataDir, constants.StoreFile),
		FollowersFile:  os.Getenv(constants.EnvFollowersFile),
		SoundPath:      getenv(constants.EnvSoundPath, filepath.Join("assets", "fight_theme.mp3")),
		ServerAddress:  getenv(constants.EnvServerAddress, constants.DefaultServerAddress),
		RosterMaxAge:   maxAge,
		MaxRounds:      maxRounds,
		RefreshRoster:  refresh,
	}
}

// EnsureDirs creates the per-environment directories.
func (s Settings) EnsureDirs() error {
	if err := os.MkdirAll(s.DataDir, 0o755); err != nil {
		return err
	}
	return os.MkdirAll(s.BattlesDir, 0o755)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
