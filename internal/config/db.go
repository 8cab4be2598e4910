package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

const (
	dbMaxOpen     = 20
	dbMaxIdle     = 10
	dbIdleTime    = 5 * time.Minute
	dbLifetime    = time.Hour
	dbPingTimeout = 3 * time.Second
)

var errEmptyDSN = errors.New("database url is empty")

// NewDB parses dsn with pgx, opens a database/sql pool over it and pings
// once. A pool that cannot reach the server is closed before returning.
func NewDB(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errEmptyDSN
	}
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	db := stdlib.OpenDB(*connCfg)
	db.SetMaxOpenConns(dbMaxOpen)
	db.SetMaxIdleConns(dbMaxIdle)
	db.SetConnMaxIdleTime(dbIdleTime)
	db.SetConnMaxLifetime(dbLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
