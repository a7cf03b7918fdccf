package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

// NewDB opens a Postgres pool and verifies connectivity before returning.
func NewDB(dsn string, lg zerolog.Logger) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty DB DSN")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(60 * time.Minute)

	// verify connectivity early (fail fast)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	var dbname, ver string
	_ = db.QueryRowContext(ctx, "SELECT current_database()").Scan(&dbname)
	_ = db.QueryRowContext(ctx, "SHOW server_version").Scan(&ver)
	lg.Info().Str("database", dbname).Str("server_version", ver).Msg("postgres connected")

	return db, nil
}
