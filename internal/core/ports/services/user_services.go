package services

import (
	"context"
	"time"

	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	"github.com/mitrapajak/tax-ledger-backend/internal/dto"
)

// UserReaderSvc defines read operations for users.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// UserWriterSvc defines mutating operations for users.
type UserWriterSvc interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error
	UpdateRefreshToken(ctx context.Context, userID string, refreshToken string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserSvcFacade combines all user service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
