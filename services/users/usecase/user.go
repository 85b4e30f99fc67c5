package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/fletero/fletero/internal/pkg/errs"
	"github.com/fletero/fletero/internal/pkg/models"
	"github.com/fletero/fletero/services/users"
)

type userUC struct {
	cfg          *models.Config
	userRepo     users.UserRepo
	presenceRepo users.PresenceRepo
}

// NewUserUC creates a new user use case
func NewUserUC(
	cfg *models.Config,
	userRepo users.UserRepo,
	presenceRepo users.PresenceRepo,
) users.UserUC {
	return &userUC{
		cfg:          cfg,
		userRepo:     userRepo,
		presenceRepo: presenceRepo,
	}
}

// GetUser fetches a user by id.
func (uc *userUC) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return uc.userRepo.GetUserByID(ctx, id)
}

// UpdateUser applies profile edits. Administrators may edit anyone;
// everyone else only their own profile.
func (uc *userUC) UpdateUser(ctx context.Context, actor models.Principal, userID uuid.UUID, req *models.UserUpdateRequest) (*models.User, error) {
	if actor.Role != models.RoleAdmin && actor.ID != userID {
		return nil, errs.Authorizationf("cannot edit another user's profile")
	}

	user, err := uc.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := uc.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListDrivers returns all active drivers. Admin only.
func (uc *userUC) ListDrivers(ctx context.Context, actor models.Principal) ([]*models.User, error) {
	if actor.Role != models.RoleAdmin {
		return nil, errs.Authorizationf("only administrators can list drivers")
	}
	return uc.userRepo.ListUsersByRole(ctx, models.RoleDriver)
}

// ListClients returns all active clients, for picking the owner of an
// administrator-created trip. Admin only.
func (uc *userUC) ListClients(ctx context.Context, actor models.Principal) ([]*models.User, error) {
	if actor.Role != models.RoleAdmin {
		return nil, errs.Authorizationf("only administrators can list clients")
	}
	return uc.userRepo.ListUsersByRole(ctx, models.RoleClient)
}

// ListOnline returns the ids of currently connected principals. Admin
// only.
func (uc *userUC) ListOnline(ctx context.Context, actor models.Principal) ([]uuid.UUID, error) {
	if actor.Role != models.RoleAdmin {
		return nil, errs.Authorizationf("only administrators can view presence")
	}
	return uc.presenceRepo.OnlineUserIDs(ctx)
}
