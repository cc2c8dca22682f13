// Package sqldb implements the article, comment and user databases with database/sql.
// Statements are built once with squirrel, so the same code serves SQLite, MySQL and PostgreSQL.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

type Dialect struct {
	Name        string
	Placeholder sq.PlaceholderFormat
	PrimaryKey  string // column type of an auto-incrementing primary key
	LongText    string
	Returning   bool // INSERT ... RETURNING id instead of LastInsertId
}

var (
	SQLite3 = Dialect{
		Name:        "sqlite3",
		Placeholder: sq.Question,
		PrimaryKey:  "INTEGER PRIMARY KEY",
		LongText:    "TEXT",
	}
	MySQL = Dialect{
		Name:        "mysql",
		Placeholder: sq.Question,
		PrimaryKey:  "INTEGER PRIMARY KEY AUTO_INCREMENT",
		LongText:    "MEDIUMTEXT",
	}
	Postgres = Dialect{
		Name:        "postgres",
		Placeholder: sq.Dollar,
		PrimaryKey:  "SERIAL PRIMARY KEY",
		LongText:    "TEXT",
		Returning:   true,
	}
)

// DialectOf returns the dialect for a database/sql driver name, as returned by dburl.
func DialectOf(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3":
		return SQLite3, nil
	case "mysql":
		return MySQL, nil
	case "postgres":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unknown database backend: %s", driver)
	}
}

func (d Dialect) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

// Migrate creates the tables if they don't exist.
func Migrate(db *sql.DB, d Dialect) error {

	var tables = []string{
		`CREATE TABLE IF NOT EXISTS usr (
			id ` + d.PrimaryKey + `,
			name varchar(150) NOT NULL,
			password varchar(72) NOT NULL,
			UNIQUE (name)
		)`,
		`CREATE TABLE IF NOT EXISTS article (
			id ` + d.PrimaryKey + `,
			title varchar(200) NOT NULL,
			body ` + d.LongText + ` NOT NULL,
			image varchar(64) NOT NULL DEFAULT '',
			author_id INTEGER NOT NULL,
			created BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS comment (
			id ` + d.PrimaryKey + `,
			article_id INTEGER NOT NULL REFERENCES article (id),
			author_id INTEGER NOT NULL,
			body ` + d.LongText + ` NOT NULL,
			created BIGINT NOT NULL
		)`,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}

	// MySQL does not know CREATE INDEX IF NOT EXISTS, so errors are ignored
	db.Exec(`CREATE INDEX article_created_idx ON article (created)`)
	db.Exec(`CREATE INDEX comment_article_idx ON comment (article_id)`)

	return nil
}

func mustPrepare(db *sql.DB, query sq.Sqlizer) *sql.Stmt {
	text, _, err := query.ToSql()
	if err != nil {
		panic(err)
	}
	stmt, err := db.Prepare(text)
	if err != nil {
		panic(fmt.Errorf("preparing %s: %w", text, err))
	}
	return stmt
}

// insert executes an INSERT statement and returns the new id.
func insert(ctx context.Context, stmt *sql.Stmt, d Dialect, args ...interface{}) (int, error) {
	if d.Returning {
		var id int
		err := stmt.QueryRowContext(ctx, args...).Scan(&id)
		return id, err
	}
	res, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

// placeholders returns n "?" expressions, which squirrel rewrites according to the dialect.
func placeholders(n int) []interface{} {
	var p = make([]interface{}, n)
	for i := range p {
		p[i] = sq.Expr("?")
	}
	return p
}
