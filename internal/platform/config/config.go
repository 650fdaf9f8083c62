package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends selectable via VITALEDGE_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config captures process-level configuration. Defaults suit local
// development; production overrides everything through the environment.
type Config struct {
	Addr         string
	StoreBackend string
	PostgresDSN  string
	Redis        RedisConfig
	Audit        AuditConfig
	LogLevel     string
}

// RedisConfig holds connection settings for the Redis-backed store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig controls the audit trail buffer and optional Kafka fan-out.
type AuditConfig struct {
	BufferSize   int
	KafkaBrokers []string
	KafkaTopic   string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:         envString("VITALEDGE_ADDR", ":8080"),
		StoreBackend: envString("VITALEDGE_STORE", StoreMemory),
		PostgresDSN:  os.Getenv("VITALEDGE_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("VITALEDGE_REDIS_URL"),
			PoolSize:     envInt("VITALEDGE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("VITALEDGE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("VITALEDGE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("VITALEDGE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("VITALEDGE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Audit: AuditConfig{
			BufferSize:   envInt("VITALEDGE_AUDIT_BUFFER", 256),
			KafkaBrokers: envList("VITALEDGE_KAFKA_BROKERS"),
			KafkaTopic:   envString("VITALEDGE_KAFKA_TOPIC", "vitaledge.audit"),
		},
		LogLevel: envString("VITALEDGE_LOG_LEVEL", "info"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
