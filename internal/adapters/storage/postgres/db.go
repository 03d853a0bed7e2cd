package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// el archivo recibe pocas escrituras: un upsert por evento de vida o muerte
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS pet_archive (
	pet_id           INTEGER PRIMARY KEY,
	born_at          TIMESTAMPTZ NOT NULL,
	died_at          TIMESTAMPTZ NULL,
	survival_time_ms BIGINT NOT NULL,
	is_alive         BOOLEAN NOT NULL,
	cause_of_death   TEXT NULL,
	stats            JSONB NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema crea la tabla del archivo si no existe.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
