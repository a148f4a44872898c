package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"m3u-mirror-failover/logger"
)

// PolicyFirstSuccess probes one designated path per candidate and accepts
// the first candidate that answers 200. PolicyAllPaths requires every
// extracted path to answer 200 before a candidate is accepted.
const (
	PolicyFirstSuccess = "first-success"
	PolicyAllPaths     = "all-paths"
)

type Config struct {
	PlaylistFile   string
	ServerListFile string
	TargetDomain   string

	ProbePolicy       string
	MaxWorkingServers int
	ProbeTimeout      time.Duration
	CandidatePause    time.Duration
	PathPause         time.Duration
	ProbeCacheTTL     time.Duration

	WatchMode  bool
	SyncCron   string
	SyncOnBoot bool
	ListenAddr string

	BackupOnUpdate bool
}

var globalConfig = FromEnv()

func GetConfig() *Config {
	return globalConfig
}

func SetConfig(c *Config) {
	globalConfig = c
}

// FromEnv builds a Config from the process environment, falling back to
// the defaults the tool has always shipped with.
func FromEnv() *Config {
	c := &Config{
		PlaylistFile:      envOr("PLAYLIST_FILE", "Backup.m3u"),
		ServerListFile:    envOr("SERVER_LIST_FILE", "servers.txt"),
		TargetDomain:      envOr("TARGET_DOMAIN", "moveonjoy.com"),
		ProbePolicy:       envOr("PROBE_POLICY", PolicyFirstSuccess),
		MaxWorkingServers: envInt("MAX_WORKING_SERVERS", 1),
		CandidatePause:    envDuration("CANDIDATE_PAUSE", 500*time.Millisecond),
		PathPause:         envDuration("PATH_PAUSE", 100*time.Millisecond),
		ProbeCacheTTL:     envDuration("PROBE_CACHE_TTL", 0),
		WatchMode:         envBool("WATCH_MODE", false),
		SyncCron:          envOr("SYNC_CRON", "0 * * * *"),
		SyncOnBoot:        envBool("SYNC_ON_BOOT", true),
		ListenAddr:        envOr("LISTEN_ADDR", ":8080"),
		BackupOnUpdate:    envBool("BACKUP_ON_UPDATE", false),
	}

	if c.ProbePolicy != PolicyFirstSuccess && c.ProbePolicy != PolicyAllPaths {
		logger.Default.Warnf("Unknown PROBE_POLICY %q, using %s", c.ProbePolicy, PolicyFirstSuccess)
		c.ProbePolicy = PolicyFirstSuccess
	}

	// The exhaustive policy uses a tighter per-request timeout since it
	// issues one request per channel path instead of one per candidate.
	defaultTimeout := 10 * time.Second
	if c.ProbePolicy == PolicyAllPaths {
		defaultTimeout = 5 * time.Second
	}
	c.ProbeTimeout = envDuration("PROBE_TIMEOUT", defaultTimeout)

	if c.MaxWorkingServers < 1 {
		c.MaxWorkingServers = 1
	}

	return c
}

func envOr(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func envInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return i
}

func envBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value) == "true"
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
