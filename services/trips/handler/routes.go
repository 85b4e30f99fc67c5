package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/fletero/fletero/internal/pkg/middleware"
	"github.com/fletero/fletero/internal/pkg/models"
	"github.com/fletero/fletero/services/trips"
	httpHandler "github.com/fletero/fletero/services/trips/handler/http"
)

// Handler combines all handlers for the trips service
type Handler struct {
	tripsHTTP *httpHandler.TripHandler
	cfg       *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(tripUC trips.TripUC, cfg *models.Config) *Handler {
	return &Handler{
		tripsHTTP: httpHandler.NewTripHandler(tripUC),
		cfg:       cfg,
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	tripsGroup := e.Group("/trips", middleware.JWTAuthMiddleware(h.cfg.JWT))

	tripsGroup.POST("/request", h.tripsHTTP.CreateTrip)
	tripsGroup.GET("", h.tripsHTTP.ListTrips)
	tripsGroup.GET("/:tripID", h.tripsHTTP.GetTrip)
	tripsGroup.GET("/:tripID/history", h.tripsHTTP.GetTripHistory)
	tripsGroup.PUT("/:tripID", h.tripsHTTP.EditTrip)
	tripsGroup.PUT("/:tripID/assign", h.tripsHTTP.AssignDriver)
	tripsGroup.PATCH("/:tripID/acknowledge", h.tripsHTTP.AcknowledgeTrip)
	tripsGroup.PATCH("/:tripID/status", h.tripsHTTP.UpdateStatus)
	tripsGroup.POST("/:tripID/invoice", h.tripsHTTP.InvoiceTrip)
	tripsGroup.PATCH("/:tripID/cancel", h.tripsHTTP.CancelTrip)
	tripsGroup.DELETE("/:tripID", h.tripsHTTP.DeleteTrip)
}
