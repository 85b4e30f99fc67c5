package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fletero/fletero/internal/pkg/errs"
	"github.com/fletero/fletero/internal/pkg/models"
	"github.com/fletero/fletero/internal/utils"
	"github.com/fletero/fletero/services/users"
)

// AuthHandler handles HTTP requests for account creation and login
type AuthHandler struct {
	userUC users.UserUC
}

// NewAuthHandler creates a new auth HTTP handler
func NewAuthHandler(userUC users.UserUC) *AuthHandler {
	return &AuthHandler{
		userUC: userUC,
	}
}

// Register handles account creation
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	user, err := h.userUC.Register(c.Request().Context(), &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "User registered successfully", user)
}

// Login verifies credentials and issues a token
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	auth, err := h.userUC.Login(c.Request().Context(), &req)
	if err != nil {
		// Credential failures map to 401 here rather than the generic 403.
		if errs.IsAuthorization(err) {
			return utils.UnauthorizedResponse(c, "Invalid email or password")
		}
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Login successful", auth)
}
