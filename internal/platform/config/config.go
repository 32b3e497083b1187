package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	Issuer        string
	Realm         string
	JWTSigningKey string

	AccessTokenLifetime time.Duration

	// GrantManagementActionRequired makes grant_management_action
	// mandatory on every authorization request.
	GrantManagementActionRequired bool

	// BackchannelLifetime bounds how long a backchannel request stays
	// approvable; BackchannelInterval is the minimum poll spacing in
	// seconds handed back to clients.
	BackchannelLifetime time.Duration
	BackchannelInterval int

	Redis    Redis
	Postgres Postgres
	Kafka    Kafka
}

// Redis captures connection settings for the shared Redis instance.
// An empty URL disables Redis and falls back to in-memory stores.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Postgres captures the client registration database DSN. Empty means
// in-memory.
type Postgres struct {
	DSN string
}

// Kafka captures the audit event sink. No brokers means audit events
// stay in memory.
type Kafka struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                          envOr("AEGIS_ADDR", ":8080"),
		Issuer:                        envOr("AEGIS_ISSUER", "http://localhost:8080"),
		Realm:                         envOr("AEGIS_REALM", "master"),
		JWTSigningKey:                 envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		AccessTokenLifetime:           envDurationOr("ACCESS_TOKEN_LIFETIME", 30*time.Minute),
		GrantManagementActionRequired: os.Getenv("GRANT_MANAGEMENT_ACTION_REQUIRED") == "true",
		BackchannelLifetime:           envDurationOr("BACKCHANNEL_LIFETIME", 5*time.Minute),
		BackchannelInterval:           envIntOr("BACKCHANNEL_INTERVAL", 5),
	}

	cfg.Redis = Redis{
		URL:          os.Getenv("REDIS_URL"),
		PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
		MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
		DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
	}
	cfg.Postgres = Postgres{DSN: os.Getenv("POSTGRES_DSN")}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka = Kafka{
			Brokers:    splitComma(brokers),
			AuditTopic: envOr("KAFKA_AUDIT_TOPIC", "aegis.audit.events"),
		}
	}
	return cfg
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envIntOr(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(name string, fallback time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
