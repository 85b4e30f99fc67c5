package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/fletero/fletero/internal/pkg/middleware"
	"github.com/fletero/fletero/internal/pkg/models"
	"github.com/fletero/fletero/services/users"
	httpHandler "github.com/fletero/fletero/services/users/handler/http"
)

// Handler combines all handlers for the users service
type Handler struct {
	authHTTP  *httpHandler.AuthHandler
	usersHTTP *httpHandler.UserHandler
	cfg       *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(userUC users.UserUC, cfg *models.Config) *Handler {
	return &Handler{
		authHTTP:  httpHandler.NewAuthHandler(userUC),
		usersHTTP: httpHandler.NewUserHandler(userUC),
		cfg:       cfg,
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	authGroup := e.Group("/auth")
	authGroup.POST("/register", h.authHTTP.Register)
	authGroup.POST("/login", h.authHTTP.Login)

	usersGroup := e.Group("/users", middleware.JWTAuthMiddleware(h.cfg.JWT))
	usersGroup.GET("/me", h.usersHTTP.Me)
	usersGroup.GET("/drivers", h.usersHTTP.ListDrivers)
	usersGroup.GET("/clients", h.usersHTTP.ListClients)
	usersGroup.GET("/online", h.usersHTTP.ListOnline)
	usersGroup.PUT("/:userID", h.usersHTTP.UpdateUser)
}
