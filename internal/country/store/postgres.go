package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS countries (
	id         BIGSERIAL PRIMARY KEY,
	name       VARCHAR(100) NOT NULL UNIQUE,
	continent  VARCHAR(50)  NOT NULL,
	capital    TEXT,
	population BIGINT,
	area       DOUBLE PRECISION,
	currency   TEXT,
	language   TEXT
)`

// NewPostgres returns a store backed by a PostgreSQL database opened with the
// pgx stdlib driver.
func NewPostgres(db *sql.DB) *SQLStore {
	return &SQLStore{
		db: db,
		dialect: dialect{
			name:       "postgres",
			schema:     postgresSchema,
			positional: true,
			isUniqueViolation: func(err error) bool {
				var pgErr *pgconn.PgError
				return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
			},
		},
	}
}
