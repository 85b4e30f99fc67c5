package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fletero/fletero/internal/pkg/middleware"
	"github.com/fletero/fletero/internal/pkg/models"
	"github.com/fletero/fletero/internal/utils"
	"github.com/fletero/fletero/services/users"
)

// UserHandler handles HTTP requests for user lookups
type UserHandler struct {
	userUC users.UserUC
}

// NewUserHandler creates a new user HTTP handler
func NewUserHandler(userUC users.UserUC) *UserHandler {
	return &UserHandler{
		userUC: userUC,
	}
}

// Me returns the authenticated principal's profile
func (h *UserHandler) Me(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	user, err := h.userUC.GetUser(c.Request().Context(), actor.ID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "User retrieved successfully", user)
}

// UpdateUser applies profile edits to a user
func (h *UserHandler) UpdateUser(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid user ID")
	}

	var req models.UserUpdateRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	user, err := h.userUC.UpdateUser(c.Request().Context(), actor, userID, &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "User updated successfully", user)
}

// ListDrivers returns all active drivers
func (h *UserHandler) ListDrivers(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	drivers, err := h.userUC.ListDrivers(c.Request().Context(), actor)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Drivers retrieved successfully", drivers)
}

// ListClients returns all active clients
func (h *UserHandler) ListClients(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	clients, err := h.userUC.ListClients(c.Request().Context(), actor)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Clients retrieved successfully", clients)
}

// ListOnline returns the ids of connected principals
func (h *UserHandler) ListOnline(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	online, err := h.userUC.ListOnline(c.Request().Context(), actor)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Online users retrieved successfully", online)
}
