// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	DB     *sql.DB
	Schema string
}

// NewPostgres opens a pool whose sessions resolve unqualified table names in cfg.Schema.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	dsn := withSearchPath(cfg.GetDSN(), cfg.Schema)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db, Schema: cfg.Schema}, nil
}

// withSearchPath appends search_path as a run-time parameter, which lib/pq forwards at startup.
func withSearchPath(dsn, schema string) string {
	if schema == "" || strings.Contains(dsn, "search_path") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "search_path=" + schema + ",public"
	}
	return dsn + " search_path=" + schema + ",public"
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
