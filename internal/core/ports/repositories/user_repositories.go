package repositories

import (
	"context"
	"time"

	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
)

// UserRepositoryFacade provides access to user records.
type UserRepositoryFacade interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	DeleteUser(ctx context.Context, userID string) error

	// UpdateRefreshToken stores the hash and expiry of a user's refresh token;
	// nil expiry clears the token.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiresAt *time.Time) error
}
