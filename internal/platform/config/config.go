package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	dErrors "offramp/pkg/domain-errors"
	strutil "offramp/pkg/platform/strings"
)

// DefaultHoldDays is the legal hold retention applied when no override is
// configured: seven years.
const DefaultHoldDays = 2555

// Config captures everything the offboarding service reads from the
// environment so main stays lean.
type Config struct {
	// Addr is the ops API listen address.
	Addr string

	// Scope selects which directory container is scanned for disabled
	// identities each cycle. Required unless Simulate is set.
	Scope string

	// HoldDuration is how long the legal hold phase retains data.
	HoldDuration time.Duration

	// LicenseGroups are the group identifiers whose membership means an
	// identity still holds a reclaimable license.
	LicenseGroups []string

	// TrackedSetPath is the line-oriented document of principals already
	// past the hold phase.
	TrackedSetPath string

	// AuditTrailPath is the audit trail document written by the sequencer.
	AuditTrailPath string

	// LogDir receives the append-only action and error logs.
	LogDir string

	// SkipMailGroups disables removal of mail-enabled group memberships.
	SkipMailGroups bool

	// SkipCalendar disables revocation of shared calendar permissions.
	SkipCalendar bool

	// Simulate substitutes external directory queries with fixed fixtures.
	Simulate bool

	// DirectoryURL is the provisioning gateway base URL. Required unless
	// Simulate is set.
	DirectoryURL string

	// DirectoryToken authenticates calls to the provisioning gateway.
	DirectoryToken string

	// CycleInterval is how often the scheduler runs a reconciliation cycle.
	// Zero disables the scheduler; cycles then run only via the ops API.
	CycleInterval time.Duration

	// RedisURL enables the single-runner cycle lock when non-empty.
	RedisURL string

	// DatabaseURL enables the postgres-backed stores when non-empty.
	DatabaseURL string

	// KafkaBrokers enables audit event publishing when non-empty.
	KafkaBrokers []string

	// APITokenKey is the HMAC key validating ops API bearer tokens.
	APITokenKey string
}

// RedisConfig carries connection tuning for the redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Redis returns the redis connection config with service defaults.
func (c Config) Redis() RedisConfig {
	return RedisConfig{
		URL:          c.RedisURL,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:           envOr("OFFRAMP_ADDR", ":8080"),
		Scope:          os.Getenv("OFFRAMP_SCOPE"),
		HoldDuration:   time.Duration(envInt("OFFRAMP_HOLD_DAYS", DefaultHoldDays)) * 24 * time.Hour,
		LicenseGroups:  envListLower("OFFRAMP_LICENSE_GROUPS"),
		TrackedSetPath: envOr("OFFRAMP_TRACKED_PATH", "state/tracked.txt"),
		AuditTrailPath: envOr("OFFRAMP_AUDIT_PATH", "state/audit-trail.json"),
		LogDir:         envOr("OFFRAMP_LOG_DIR", "logs"),
		SkipMailGroups: os.Getenv("OFFRAMP_SKIP_MAIL_GROUPS") == "true",
		SkipCalendar:   os.Getenv("OFFRAMP_SKIP_CALENDAR") == "true",
		Simulate:       os.Getenv("OFFRAMP_SIMULATE") == "true",
		DirectoryURL:   os.Getenv("OFFRAMP_DIRECTORY_URL"),
		DirectoryToken: os.Getenv("OFFRAMP_DIRECTORY_TOKEN"),
		CycleInterval:  envDuration("OFFRAMP_CYCLE_INTERVAL", 24*time.Hour),
		RedisURL:       os.Getenv("OFFRAMP_REDIS_URL"),
		DatabaseURL:    os.Getenv("OFFRAMP_DATABASE_URL"),
		KafkaBrokers:   envList("OFFRAMP_KAFKA_BROKERS"),
		APITokenKey:    os.Getenv("OFFRAMP_API_TOKEN_KEY"),
	}
	return cfg
}

// Validate enforces the configuration invariants before anything mutates
// state. A missing scope or state path is fatal.
func (c Config) Validate() error {
	if c.Scope == "" && !c.Simulate {
		return dErrors.New(dErrors.CodeInvalidInput, "eligibility scope is required (OFFRAMP_SCOPE)")
	}
	if c.DirectoryURL == "" && !c.Simulate {
		return dErrors.New(dErrors.CodeInvalidInput, "directory gateway URL is required (OFFRAMP_DIRECTORY_URL)")
	}
	if c.TrackedSetPath == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "tracked set path is required (OFFRAMP_TRACKED_PATH)")
	}
	if c.AuditTrailPath == "" && c.DatabaseURL == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "audit trail path is required (OFFRAMP_AUDIT_PATH)")
	}
	if c.LogDir == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "log directory is required (OFFRAMP_LOG_DIR)")
	}
	if c.HoldDuration <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "hold duration must be positive (OFFRAMP_HOLD_DAYS)")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	out := strutil.DedupeAndTrim(strings.Split(v, ","))
	if len(out) == 0 {
		return nil
	}
	return out
}

// envListLower is envList with case folding; directory group identifiers
// are matched case-insensitively.
func envListLower(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	out := strutil.DedupeAndTrimLower(strings.Split(v, ","))
	if len(out) == 0 {
		return nil
	}
	return out
}
