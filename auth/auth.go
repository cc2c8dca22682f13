package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrAuth          = errors.New("wrong username or password")
	ErrEmptyName     = errors.New("refusing to create user with empty name")
	ErrEmptyPassword = errors.New("refusing to set empty password")
	ErrUserExists    = errors.New("user already exists")
)

type AuthDB struct {
	UserDB
}

// Register shadows UserDB.InsertUser. It creates the user and authenticates it with the same credentials.
func (a *AuthDB) Register(ctx context.Context, name, password string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if _, err := a.UserDB.InsertUser(ctx, name, password); err != nil {
		return nil, err
	}
	return a.UserDB.LoginUser(ctx, name, password)
}

// SetPassword shadows UserDB.SetPassword.
func (a *AuthDB) SetPassword(ctx context.Context, u User, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	return a.UserDB.SetPassword(ctx, u, password)
}
