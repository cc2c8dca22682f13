package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/wansing/news/auth"
	"golang.org/x/crypto/bcrypt"
)

func clean(name string) string {
	return strings.TrimSpace(name)
}

type user struct {
	id   int
	name string
	hash []byte
}

func (u *user) ID() int {
	return u.id
}

func (u *user) Name() string {
	return u.name
}

type UserDB struct {
	*sql.DB
	dialect     Dialect
	get         *sql.Stmt
	getByName   *sql.Stmt
	insert      *sql.Stmt
	setPassword *sql.Stmt
}

func NewUserDB(db *sql.DB, d Dialect) *UserDB {

	var b = d.builder()

	var insertUser = b.Insert("usr").Columns("name", "password").Values(placeholders(2)...)
	if d.Returning {
		insertUser = insertUser.Suffix("RETURNING id")
	}

	var userDB = &UserDB{}
	userDB.DB = db
	userDB.dialect = d
	userDB.get = mustPrepare(db, b.Select("id", "name", "password").From("usr").Where("id = ?"))
	userDB.getByName = mustPrepare(db, b.Select("id", "name", "password").From("usr").Where("name = ?"))
	userDB.insert = mustPrepare(db, insertUser)
	userDB.setPassword = mustPrepare(db, b.Update("usr").Set("password", sq.Expr("?")).Where("id = ?"))
	return userDB
}

func scanUser(row *sql.Row) (*user, error) {
	var u = &user{}
	return u, row.Scan(&u.id, &u.name, &u.hash)
}

// GetUser may return sql.ErrNoRows.
func (db *UserDB) GetUser(ctx context.Context, id int) (auth.User, error) {
	u, err := scanUser(db.get.QueryRowContext(ctx, id))
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByName may return sql.ErrNoRows.
func (db *UserDB) GetUserByName(ctx context.Context, name string) (auth.User, error) {
	u, err := scanUser(db.getByName.QueryRowContext(ctx, clean(name)))
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (db *UserDB) InsertUser(ctx context.Context, name, password string) (auth.User, error) {

	name = clean(name)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	// the UNIQUE constraint is the last resort, but its error is driver-specific
	_, err = scanUser(tx.StmtContext(ctx, db.getByName).QueryRowContext(ctx, name))
	switch {
	case err == nil:
		tx.Rollback()
		return nil, auth.ErrUserExists
	case !errors.Is(err, sql.ErrNoRows):
		tx.Rollback()
		return nil, err
	}

	id, err := insert(ctx, tx.StmtContext(ctx, db.insert), db.dialect, name, string(hash))
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &user{
		id:   id,
		name: name,
		hash: hash,
	}, nil
}

func (db *UserDB) LoginUser(ctx context.Context, name, password string) (auth.User, error) {

	u, err := scanUser(db.getByName.QueryRowContext(ctx, clean(name)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrAuth // user not found
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
		return nil, auth.ErrAuth // wrong password
	}

	return u, nil
}

func (db *UserDB) SetPassword(ctx context.Context, u auth.User, password string) error {

	if password == "" {
		return auth.ErrEmptyPassword
	}

	if u.ID() == 0 {
		return errors.New("can't set password of user 0")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err = db.setPassword.ExecContext(ctx, string(hash), u.ID()); err != nil {
		return err
	}

	if u, ok := u.(*user); ok {
		u.hash = hash
	}
	return nil
}
