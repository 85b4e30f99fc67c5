package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/fletero/fletero/internal/pkg/models"
)

// UserRepo defines the interface for user data access
type UserRepo interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error)
}

// PresenceRepo defines the interface for online-presence lookups
type PresenceRepo interface {
	OnlineUserIDs(ctx context.Context) ([]uuid.UUID, error)
}
