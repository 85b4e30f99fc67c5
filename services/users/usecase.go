package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/fletero/fletero/internal/pkg/models"
)

// UserUC defines the interface for identity business logic
type UserUC interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, actor models.Principal, userID uuid.UUID, req *models.UserUpdateRequest) (*models.User, error)
	ListDrivers(ctx context.Context, actor models.Principal) ([]*models.User, error)
	ListClients(ctx context.Context, actor models.Principal) ([]*models.User, error)
	ListOnline(ctx context.Context, actor models.Principal) ([]uuid.UUID, error)
}
