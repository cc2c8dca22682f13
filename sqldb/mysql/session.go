package mysql

import (
	"database/sql"
	"fmt"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/v2"
)

// NewSessionStore creates the sessions table if required and returns an scs.Store backed by it.
func NewSessionStore(db *sql.DB) (scs.Store, error) {

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			token CHAR(43) PRIMARY KEY,
			data BLOB NOT NULL,
			expiry TIMESTAMP(6) NOT NULL
		)`)
	if err != nil {
		return nil, fmt.Errorf("creating sessions table: %w", err)
	}

	db.Exec(`CREATE INDEX sessions_expiry_idx ON sessions (expiry)`) // fails if it exists

	return mysqlstore.New(db), nil
}
