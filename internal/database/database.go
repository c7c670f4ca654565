// Package database opens the PostgreSQL pool and the MongoDB client used by
// the order and push token stores.
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig describes the PostgreSQL pool. URL, when set, wins over the
// individual connection fields.
type PostgresConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	ConnectRetries  uint64
}

// PostgresConfigFromEnv reads DATABASE_URL or the DB_* variables.
func PostgresConfigFromEnv() PostgresConfig {
	return PostgresConfig{
		URL:             os.Getenv("DATABASE_URL"),
		Host:            envString("DB_HOST", "localhost"),
		Port:            envInt("DB_PORT", 5432),
		User:            envString("DB_USER", "orderpush"),
		Password:        envString("DB_PASSWORD", "localdev"),
		Database:        envString("DB_NAME", "orderpush"),
		SSLMode:         envString("DB_SSL_MODE", "disable"),
		MaxConns:        int32(envInt("DB_MAX_CONNS", 10)), //nolint:gosec // small operator-supplied value
		MinConns:        int32(envInt("DB_MIN_CONNS", 2)),  //nolint:gosec // small operator-supplied value
		MaxConnLifetime: envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		ConnectRetries:  uint64(envInt("DB_CONNECT_RETRIES", 5)), //nolint:gosec // negative values fall back below
	}
}

// DSN returns the connection URL. Credentials are escaped.
func (c PostgresConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// ConnectPostgres opens a pool and pings it, retrying the ping with
// exponential backoff up to ConnectRetries times.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 && cfg.MinConns <= poolConfig.MaxConns {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err := retryConnect(ctx, cfg.ConnectRetries, func() error { return pool.Ping(ctx) }); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// retryConnect only guards startup. Queries are never retried.
func retryConnect(ctx context.Context, retries uint64, ping func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 0

	return backoff.Retry(ping, backoff.WithContext(backoff.WithMaxRetries(bo, retries), ctx))
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n >= 0 {
		return n
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}
