package auth

import "context"

type User interface {
	ID() int
	Name() string
}

type UserDB interface {
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByName(ctx context.Context, name string) (User, error)
	InsertUser(ctx context.Context, name, password string) (User, error) // returns ErrUserExists if the name is taken
	LoginUser(ctx context.Context, name, password string) (User, error)  // returns ErrAuth on wrong credentials
	SetPassword(ctx context.Context, u User, password string) error
}
