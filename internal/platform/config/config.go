// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	platformstrings "caseflow/pkg/platform/strings"
)

// Config is the full service configuration. Only Addr and JWTSigningKey are
// needed to boot; absent DatabaseDSN falls back to in-memory stores, absent
// RedisAddr keeps the sequence counter on the primary database, and absent
// KafkaBrokers disables the audit fan-out sink.
type Config struct {
	Addr          string   `env:"CASEFLOW_ADDR" env-default:":8080"`
	DatabaseDSN   string   `env:"CASEFLOW_DATABASE_DSN"`
	RedisAddr     string   `env:"CASEFLOW_REDIS_ADDR"`
	KafkaBrokers  []string `env:"CASEFLOW_KAFKA_BROKERS"`
	AuditTopic    string   `env:"CASEFLOW_AUDIT_TOPIC" env-default:"caseflow.audit"`
	JWTSigningKey string   `env:"CASEFLOW_JWT_SIGNING_KEY" env-default:"dev-secret-change-in-production"`
	LogLevel      string   `env:"CASEFLOW_LOG_LEVEL" env-default:"info"`
}

// FromEnv reads configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read config from env: %w", err)
	}
	cfg.KafkaBrokers = platformstrings.DedupeAndTrim(cfg.KafkaBrokers)
	return cfg, nil
}
