package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/fletero/fletero/internal/pkg/middleware"
	"github.com/fletero/fletero/internal/pkg/models"
	"github.com/fletero/fletero/internal/utils"
	"github.com/fletero/fletero/services/trips"
)

// TripHandler handles HTTP requests for trip operations
type TripHandler struct {
	tripUC trips.TripUC
}

// NewTripHandler creates a new trip HTTP handler
func NewTripHandler(tripUC trips.TripUC) *TripHandler {
	return &TripHandler{
		tripUC: tripUC,
	}
}

// CreateTrip handles trip creation requests
func (h *TripHandler) CreateTrip(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	var req models.TripCreateRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	trip, err := h.tripUC.CreateTrip(c.Request().Context(), actor, &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Trip created successfully", trip)
}

// ListTrips lists the trips visible to the caller
func (h *TripHandler) ListTrips(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	trips, err := h.tripUC.ListTrips(c.Request().Context(), actor, c.QueryParam("sort_by"), c.QueryParam("sort_dir"))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trips retrieved successfully", trips)
}

// GetTrip fetches one trip
func (h *TripHandler) GetTrip(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := parseTripID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	trip, err := h.tripUC.GetTrip(c.Request().Context(), actor, tripID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip retrieved successfully", trip)
}

// GetTripHistory lists the audit entries of a trip
func (h *TripHandler) GetTripHistory(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := parseTripID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	history, err := h.tripUC.GetTripHistory(c.Request().Context(), actor, tripID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip history retrieved successfully", history)
}

// EditTrip applies content-field changes to a trip
func (h *TripHandler) EditTrip(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := parseTripID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	var req models.TripEditRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	trip, err := h.tripUC.EditTrip(c.Request().Context(), actor, tripID, &req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip updated successfully", trip)
}

// AssignDriver assigns a driver to a pending trip
func (h *TripHandler) AssignDriver(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := parseTripID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	var req struct {
		DriverID uuid.UUID `json:"driver_id"`
	}
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if req.DriverID == uuid.Nil {
		return utils.BadRequestResponse(c, "driver_id is required")
	}

	trip, err := h.tripUC.AssignDriver(c.Request().Context(), actor, tripID, req.DriverID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Driver assigned successfully", trip)
}

// AcknowledgeTrip records the assigned driver's receipt of the offer
func (h *TripHandler) AcknowledgeTrip(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := parseTripID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	trip, err := h.tripUC.AcknowledgeTrip(c.Request().Context(), actor, tripID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip acknowledged successfully", trip)
}

// UpdateStatus executes one of the driver progress actions
func (h *TripHandler) UpdateStatus(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := parseTripID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	var trip *models.Trip
	switch req.Action {
	case "start":
		trip, err = h.tripUC.StartTrip(c.Request().Context(), actor, tripID)
	case "unload":
		trip, err = h.tripUC.UnloadTrip(c.Request().Context(), actor, tripID)
	case "return":
		trip, err = h.tripUC.ReturnContainer(c.Request().Context(), actor, tripID)
	default:
		return utils.BadRequestResponse(c, "action must be one of start, unload, return")
	}
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip status updated successfully", trip)
}

// InvoiceTrip closes the trip lifecycle with an amount
func (h *TripHandler) InvoiceTrip(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := parseTripID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	trip, err := h.tripUC.InvoiceTrip(c.Request().Context(), actor, tripID, req.Amount)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip invoiced successfully", trip)
}

// CancelTrip cancels a trip
func (h *TripHandler) CancelTrip(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := parseTripID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	trip, err := h.tripUC.CancelTrip(c.Request().Context(), actor, tripID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip cancelled successfully", trip)
}

// DeleteTrip soft-deletes a trip
func (h *TripHandler) DeleteTrip(c echo.Context) error {
	actor, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return utils.UnauthorizedResponse(c, "")
	}

	tripID, err := parseTripID(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid trip ID")
	}

	if err := h.tripUC.DeleteTrip(c.Request().Context(), actor, tripID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Trip deleted successfully", nil)
}

func parseTripID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("tripID"))
}
