package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wansing/news/core"
)

type CommentDB struct {
	*sql.DB
	dialect       Dialect
	articleExists *sql.Stmt
	insert        *sql.Stmt
	list          *sql.Stmt
}

func NewCommentDB(db *sql.DB, d Dialect) *CommentDB {

	var b = d.builder()

	var insertComment = b.Insert("comment").Columns("article_id", "author_id", "body", "created").Values(placeholders(4)...)
	if d.Returning {
		insertComment = insertComment.Suffix("RETURNING id")
	}

	var commentDB = &CommentDB{}
	commentDB.DB = db
	commentDB.dialect = d
	commentDB.articleExists = mustPrepare(db, b.Select("1").From("article").Where("id = ?"))
	commentDB.insert = mustPrepare(db, insertComment)
	commentDB.list = mustPrepare(db, b.Select("c.id", "c.article_id", "c.author_id", "COALESCE(u.name, '')", "c.body", "c.created").
		From("comment c").
		LeftJoin("usr u ON u.id = c.author_id").
		Where("c.article_id = ?").
		OrderBy("c.created", "c.id"))
	return commentDB
}

func (db *CommentDB) Comments(ctx context.Context, articleID int) ([]*core.Comment, error) {

	rows, err := db.list.QueryContext(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	var comments = []*core.Comment{}

	for rows.Next() {
		var c = &core.Comment{}
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.AuthorID, &c.AuthorName, &c.Body, &c.Created); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// InsertComment checks within a transaction that the article exists, so no comment refers to a deleted article.
func (db *CommentDB) InsertComment(ctx context.Context, c *core.Comment) error {

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var one int
	err = tx.StmtContext(ctx, db.articleExists).QueryRowContext(ctx, c.ArticleID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		tx.Rollback()
		return fmt.Errorf("article %d: %w", c.ArticleID, core.ErrNotFound)
	}
	if err != nil {
		tx.Rollback()
		return err
	}

	var created = time.Now().Unix()

	id, err := insert(ctx, tx.StmtContext(ctx, db.insert), db.dialect, c.ArticleID, c.AuthorID, c.Body, created)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("inserting comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	c.ID = id
	c.Created = created
	return nil
}
