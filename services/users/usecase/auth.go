package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fletero/fletero/internal/pkg/errs"
	jwtpkg "github.com/fletero/fletero/internal/pkg/jwt"
	"github.com/fletero/fletero/internal/pkg/logger"
	"github.com/fletero/fletero/internal/pkg/models"
)

// Register creates an account. The role comes from the request; the
// original deployment creates accounts through an admin console, so no
// self-service restrictions apply here.
func (uc *userUC) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.Validationf("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, errs.Validationf("password must be at least 8 characters")
	}
	switch req.Role {
	case models.RoleAdmin, models.RoleClient, models.RoleDriver:
	default:
		return nil, errs.Validationf("role must be one of ADMIN, CLIENT, DRIVER")
	}

	if existing, err := uc.userRepo.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, errs.Validationf("email %s is already registered", email)
	} else if err != nil && !errs.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Store("hash password", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User registered",
		logger.String("user_id", user.ID.String()),
		logger.String("role", string(user.Role)))
	return user, nil
}

// Login verifies credentials and issues a JWT.
func (uc *userUC) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := uc.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, errs.Authorizationf("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errs.Authorizationf("invalid email or password")
	}

	token, expiresAt, err := jwtpkg.GenerateToken(user.ID, user.Role, uc.cfg.JWT)
	if err != nil {
		return nil, errs.Store("issue token", err)
	}

	return &models.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}
