package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time for duration-typed settings
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values are enforced by must(); settings
// with sensible defaults use the opt* helpers so that a bare deployment can
// still boot.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to verify access tokens issued upstream

	// Audit retention and export settings.
	RetentionDays   int           // audit rows older than this many days are export+purge eligible
	RetentionEvery  time.Duration // cadence of the in-process retention trigger
	ExportBucketURL string        // gocloud bucket URL, e.g. s3://bucket?region=eu-west-1 (empty disables uploads)
	ExportPrefix    string        // key prefix for retention backups
	ExportCooldown  time.Duration // minimum interval between two exports of the same type per organization
}

// Load reads configuration values from environment variables and returns a
// Config.  Missing required variables cause the program to exit with a fatal
// log message.
func Load() Config {
	return Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"), // empty allowed
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),

		RetentionDays:   optInt("AUDIT_RETENTION_DAYS", 90),
		RetentionEvery:  optDur("AUDIT_RETENTION_EVERY", 24*time.Hour),
		ExportBucketURL: os.Getenv("AUDIT_EXPORT_BUCKET_URL"),
		ExportPrefix:    opt("AUDIT_EXPORT_PREFIX", "audit-exports"),
		ExportCooldown:  optDur("EXPORT_COOLDOWN", 10*time.Minute),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// opt returns the value of an environment variable or the given default
// when unset or empty.
func opt(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// optInt is like opt but converts the value to an integer.  Invalid values
// are fatal rather than silently falling back, mirroring must().
func optInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

// optDur is like opt but parses a time.Duration (e.g. "10m", "24h").
func optDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, v)
	}
	return d
}
