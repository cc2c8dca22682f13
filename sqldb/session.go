package sqldb

import (
	"database/sql"

	"github.com/alexedwards/scs/v2"
	"github.com/wansing/news/sqldb/mysql"
	"github.com/wansing/news/sqldb/postgres"
	"github.com/wansing/news/sqldb/sqlite3"
)

// NewSessionStore returns the scs.Store which matches the dialect.
func NewSessionStore(db *sql.DB, d Dialect) (scs.Store, error) {
	switch d.Name {
	case MySQL.Name:
		return mysql.NewSessionStore(db)
	case Postgres.Name:
		return postgres.NewSessionStore(db)
	default:
		return sqlite3.NewSessionStore(db)
	}
}
