package core

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog/log"
	"github.com/wansing/news/auth"
	"github.com/wansing/news/upload"
)

const (
	DefaultMaxUploadBytes = 4 << 20
	DefaultRecentLimit    = 20
)

type CoreDB struct {
	ArticleDB
	CommentDB
	Auth           *auth.AuthDB
	SessionManager *scs.SessionManager
	Uploads        upload.Store

	DefaultLanguage string // used if the request has no Accept-Language header
	MaxUploadBytes  int64
	RecentLimit     int // number of articles in the sidebar of the create view
}

func (c *CoreDB) Init(sessionStore scs.Store, cookiePath string) error {

	if c.ArticleDB == nil || c.CommentDB == nil || c.Auth == nil || c.Uploads == nil {
		return fmt.Errorf("core: incomplete CoreDB")
	}

	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}

	if c.RecentLimit <= 0 {
		c.RecentLimit = DefaultRecentLimit
	}

	c.SessionManager = scs.New()
	c.SessionManager.Store = sessionStore
	c.SessionManager.Cookie.Path = cookiePath + "/"         // 'The default value is "/". Passing the empty string "" will result in it being set to the path that the cookie was issued from.'
	c.SessionManager.Cookie.Persist = false                 // Don't store cookie across browser sessions.
	c.SessionManager.Cookie.SameSite = http.SameSiteLaxMode // good CSRF protection if HTTP GET doesn't modify anything
	c.SessionManager.Cookie.Secure = false                  // else running on localhost or behind a http proxy fails
	c.SessionManager.IdleTimeout = 12 * time.Hour
	c.SessionManager.Lifetime = 720 * time.Hour

	return nil
}

// GetArticle shadows ArticleDB.GetArticle.
func (c *CoreDB) GetArticle(ctx context.Context, id int) (*Article, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	return c.ArticleDB.GetArticle(ctx, id)
}

// RecentArticles returns the RecentLimit most recently created articles.
func (c *CoreDB) RecentArticles(ctx context.Context) ([]*Article, error) {
	return c.ArticleDB.RecentArticles(ctx, c.RecentLimit)
}

// CreateArticle stores the image of the form, if any, and inserts an article written by author.
func (c *CoreDB) CreateArticle(ctx context.Context, author auth.User, form *ArticleForm) (*Article, error) {

	if author == nil {
		return nil, ErrUnauthorized
	}

	var a = &Article{
		Title:      form.Title,
		Body:       form.Body,
		AuthorID:   author.ID(),
		AuthorName: author.Name(),
	}

	if form.Image != nil {
		if err := c.Uploads.Save(ctx, form.Image.Name, form.Image.ContentType, form.Image.Reader()); err != nil {
			return nil, fmt.Errorf("saving image: %w", err)
		}
		a.Image = form.Image.Name
	}

	if err := c.ArticleDB.InsertArticle(ctx, a); err != nil {
		c.removeImage(ctx, a.Image)
		return nil, err
	}

	return a, nil
}

// UpdateArticle replaces title, body and image of a. Author, id and creation time are kept.
func (c *CoreDB) UpdateArticle(ctx context.Context, u auth.User, a *Article, form *ArticleForm) error {

	if err := RequireAuthor(u, a); err != nil {
		return err
	}

	var updated = *a
	updated.Title = form.Title
	updated.Body = form.Body

	if form.ClearImage {
		updated.Image = ""
	}

	if form.Image != nil {
		if err := c.Uploads.Save(ctx, form.Image.Name, form.Image.ContentType, form.Image.Reader()); err != nil {
			return fmt.Errorf("saving image: %w", err)
		}
		updated.Image = form.Image.Name
	}

	if err := c.ArticleDB.UpdateArticle(ctx, &updated); err != nil {
		if updated.Image != a.Image {
			c.removeImage(ctx, updated.Image)
		}
		return err
	}

	if updated.Image != a.Image {
		c.removeImage(ctx, a.Image)
	}

	*a = updated
	return nil
}

// DeleteArticle deletes a, its comments and its image.
func (c *CoreDB) DeleteArticle(ctx context.Context, u auth.User, a *Article) error {

	if err := RequireAuthor(u, a); err != nil {
		return err
	}

	if err := c.ArticleDB.DeleteArticle(ctx, a.ID); err != nil {
		return err
	}

	c.removeImage(ctx, a.Image)
	return nil
}

// AddComment inserts a comment of author to a.
func (c *CoreDB) AddComment(ctx context.Context, author auth.User, a *Article, form *CommentForm) (*Comment, error) {

	if author == nil {
		return nil, ErrUnauthorized
	}

	var comment = &Comment{
		ArticleID:  a.ID,
		AuthorID:   author.ID(),
		AuthorName: author.Name(),
		Body:       form.Body,
	}

	if err := c.CommentDB.InsertComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// removeImage deletes an upload. Errors are logged only, the database is the reference.
func (c *CoreDB) removeImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := c.Uploads.Delete(ctx, name); err != nil {
		log.Warn().Err(err).Str("image", name).Msg("could not delete image")
	}
}
