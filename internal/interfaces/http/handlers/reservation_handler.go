package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/internal/interfaces/http/response"
)

type reservationService interface {
	GetReservations(ctx context.Context, businessID uuid.UUID) ([]*entities.Reservation, error)
	ListReservationsByCustomer(ctx context.Context, username string) ([]*entities.Reservation, error)
	CreateReservation(ctx context.Context, input *entities.CreateReservationInput) (*entities.Reservation, error)
	UpdateReservation(ctx context.Context, id uuid.UUID, input *entities.UpdateReservationInput) (*entities.Reservation, error)
	ConfirmReservation(ctx context.Context, id uuid.UUID) (*entities.Reservation, error)
	DeleteReservation(ctx context.Context, id uuid.UUID) error
	CheckAvailability(ctx context.Context, query *entities.AvailabilityQuery) (*entities.Availability, error)
}

// ReservationHandler handles reservation endpoints
type ReservationHandler struct {
	reservationUsecase reservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationUsecase reservationService) *ReservationHandler {
	return &ReservationHandler{reservationUsecase: reservationUsecase}
}

// GetReservations GET /api/v1/businesses/:id/reservations
func (h *ReservationHandler) GetReservations(c *gin.Context) {
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	reservations, err := h.reservationUsecase.GetReservations(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, reservations)
}

// ListByCustomer GET /api/v1/customers/:username/reservations
func (h *ReservationHandler) ListByCustomer(c *gin.Context) {
	reservations, err := h.reservationUsecase.ListReservationsByCustomer(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, reservations)
}

// CreateReservation books a table; the end time is predicted when omitted
// POST /api/v1/reservations
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var input entities.CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	reservation, err := h.reservationUsecase.CreateReservation(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Reservation created", reservation)
}

// CheckAvailability POST /api/v1/reservations/availability
func (h *ReservationHandler) CheckAvailability(c *gin.Context) {
	var query entities.AvailabilityQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	availability, err := h.reservationUsecase.CheckAvailability(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, availability)
}

// UpdateReservation PUT /api/v1/reservations/:id
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.UpdateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	reservation, err := h.reservationUsecase.UpdateReservation(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Reservation updated", reservation)
}

// ConfirmReservation marks a paid reservation as Confirmed
// POST /api/v1/reservations/:id/confirm
func (h *ReservationHandler) ConfirmReservation(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	reservation, err := h.reservationUsecase.ConfirmReservation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Reservation confirmed", reservation)
}

// DeleteReservation DELETE /api/v1/reservations/:id
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.reservationUsecase.DeleteReservation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Reservation deleted", gin.H{"id": id})
}
