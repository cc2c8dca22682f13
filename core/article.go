package core

import (
	"context"
)

type Article struct {
	ID         int
	Title      string
	Body       string
	Image      string // upload name, empty if there is none
	AuthorID   int
	AuthorName string
	Created    int64
}

type ArticleDB interface {
	AllArticles(ctx context.Context) ([]*Article, error)
	DeleteArticle(ctx context.Context, id int) error // deletes the comments of the article, too
	GetArticle(ctx context.Context, id int) (*Article, error)
	InsertArticle(ctx context.Context, a *Article) error // sets a.ID and a.Created
	RecentArticles(ctx context.Context, limit int) ([]*Article, error)
	UpdateArticle(ctx context.Context, a *Article) error // title, body and image only
}

type Comment struct {
	ID         int
	ArticleID  int
	AuthorID   int
	AuthorName string
	Body       string
	Created    int64
}

type CommentDB interface {
	Comments(ctx context.Context, articleID int) ([]*Comment, error) // oldest first
	InsertComment(ctx context.Context, c *Comment) error            // returns ErrNotFound if the article does not exist
}
