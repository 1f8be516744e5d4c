package user

import (
	"context"
	"time"
)

type Repository interface {
	// CreateWithAccount inserts the user and its zero-balance wallet
	// account in one transaction.
	CreateWithAccount(ctx context.Context, u User) (*User, error)

	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int) error

	StoreRefreshToken(ctx context.Context, userID int, token string, expiresAt time.Time) error
	DeleteRefreshToken(ctx context.Context, token string) error
	RefreshTokenValid(ctx context.Context, token string) (bool, error)
}
