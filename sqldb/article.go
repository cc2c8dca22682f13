package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/wansing/news/core"
)

var articleColumns = []string{"a.id", "a.title", "a.body", "a.image", "a.author_id", "COALESCE(u.name, '')", "a.created"}

type ArticleDB struct {
	*sql.DB
	dialect        Dialect
	all            *sql.Stmt
	get            *sql.Stmt
	insert         *sql.Stmt
	recent         *sql.Stmt
	remove         *sql.Stmt
	removeComments *sql.Stmt
	update         *sql.Stmt
}

func NewArticleDB(db *sql.DB, d Dialect) *ArticleDB {

	var b = d.builder()
	var selectArticles = b.Select(articleColumns...).From("article a").LeftJoin("usr u ON u.id = a.author_id")

	var insertArticle = b.Insert("article").Columns("title", "body", "image", "author_id", "created").Values(placeholders(5)...)
	if d.Returning {
		insertArticle = insertArticle.Suffix("RETURNING id")
	}

	var articleDB = &ArticleDB{}
	articleDB.DB = db
	articleDB.dialect = d
	articleDB.all = mustPrepare(db, selectArticles.OrderBy("a.id"))
	articleDB.get = mustPrepare(db, selectArticles.Where("a.id = ?"))
	articleDB.insert = mustPrepare(db, insertArticle)
	articleDB.recent = mustPrepare(db, selectArticles.OrderBy("a.created DESC", "a.id DESC").Suffix("LIMIT ?"))
	articleDB.remove = mustPrepare(db, b.Delete("article").Where("id = ?"))
	articleDB.removeComments = mustPrepare(db, b.Delete("comment").Where("article_id = ?"))
	articleDB.update = mustPrepare(db, b.Update("article").Set("title", sq.Expr("?")).Set("body", sq.Expr("?")).Set("image", sq.Expr("?")).Where("id = ?"))
	return articleDB
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row scanner) (*core.Article, error) {
	var a = &core.Article{}
	return a, row.Scan(&a.ID, &a.Title, &a.Body, &a.Image, &a.AuthorID, &a.AuthorName, &a.Created)
}

func (db *ArticleDB) list(ctx context.Context, stmt *sql.Stmt, args ...interface{}) ([]*core.Article, error) {

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles = []*core.Article{}

	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, a)
	}

	return articles, rows.Err()
}

func (db *ArticleDB) AllArticles(ctx context.Context) ([]*core.Article, error) {
	return db.list(ctx, db.all)
}

func (db *ArticleDB) RecentArticles(ctx context.Context, limit int) ([]*core.Article, error) {
	return db.list(ctx, db.recent, limit)
}

func (db *ArticleDB) GetArticle(ctx context.Context, id int) (*core.Article, error) {
	a, err := scanArticle(db.get.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("article %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting article %d: %w", id, err)
	}
	return a, nil
}

func (db *ArticleDB) InsertArticle(ctx context.Context, a *core.Article) error {
	var created = time.Now().Unix()
	id, err := insert(ctx, db.insert, db.dialect, a.Title, a.Body, a.Image, a.AuthorID, created)
	if err != nil {
		return fmt.Errorf("inserting article: %w", err)
	}
	a.ID = id
	a.Created = created
	return nil
}

func (db *ArticleDB) UpdateArticle(ctx context.Context, a *core.Article) error {
	res, err := db.update.ExecContext(ctx, a.Title, a.Body, a.Image, a.ID)
	if err != nil {
		return fmt.Errorf("updating article %d: %w", a.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL reports zero affected rows if nothing has changed
		if _, err := db.GetArticle(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

func (db *ArticleDB) DeleteArticle(ctx context.Context, id int) error {

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.StmtContext(ctx, db.removeComments).ExecContext(ctx, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("deleting comments of article %d: %w", id, err)
	}

	res, err := tx.StmtContext(ctx, db.remove).ExecContext(ctx, id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("deleting article %d: %w", id, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		tx.Rollback()
		return fmt.Errorf("article %d: %w", id, core.ErrNotFound)
	}

	return tx.Commit()
}
