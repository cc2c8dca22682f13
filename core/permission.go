package core

import (
	"errors"

	"github.com/wansing/news/auth"
)

var (
	ErrForbidden    = errors.New("you are not the author of this article")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("login required")
)

// RequireAuthor returns an error unless u is the recorded author of a.
// Every view which mutates an article, or renders a form for mutating it, calls it before reading any form data.
func RequireAuthor(u auth.User, a *Article) error {
	if u == nil {
		return ErrUnauthorized
	}
	if a == nil || a.AuthorID != u.ID() {
		return ErrForbidden
	}
	return nil
}
