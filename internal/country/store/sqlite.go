package store

import (
	"database/sql"
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS countries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	continent  TEXT NOT NULL,
	capital    TEXT,
	population INTEGER,
	area       REAL,
	currency   TEXT,
	language   TEXT
)`

// NewSQLite returns a store backed by a modernc.org/sqlite database.
func NewSQLite(db *sql.DB) *SQLStore {
	return &SQLStore{
		db: db,
		dialect: dialect{
			name:   "sqlite",
			schema: sqliteSchema,
			isUniqueViolation: func(err error) bool {
				var se *sqlite.Error
				if !errors.As(err, &se) {
					return false
				}
				code := se.Code()
				return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
					code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
					code == sqlite3.SQLITE_CONSTRAINT
			},
		},
	}
}
