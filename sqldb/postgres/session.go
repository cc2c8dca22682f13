package postgres

import (
	"database/sql"
	"fmt"

	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/v2"
)

// NewSessionStore creates the sessions table if required and returns an scs.Store backed by it.
func NewSessionStore(db *sql.DB) (scs.Store, error) {

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BYTEA NOT NULL,
			expiry TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions (expiry)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("creating sessions table: %w", err)
		}
	}

	return postgresstore.New(db), nil
}
