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

type floorPlanService interface {
	GetFloorPlan(ctx context.Context, businessID uuid.UUID) (*entities.FloorPlan, error)
	SaveFloorPlan(ctx context.Context, input *entities.FloorPlanInput) (*entities.FloorPlanSummary, error)
	DeleteFloor(ctx context.Context, floorID uuid.UUID) error
}

// FloorPlanHandler handles floor plan endpoints
type FloorPlanHandler struct {
	floorPlanUsecase floorPlanService
}

// NewFloorPlanHandler creates a new floor plan handler
func NewFloorPlanHandler(floorPlanUsecase floorPlanService) *FloorPlanHandler {
	return &FloorPlanHandler{floorPlanUsecase: floorPlanUsecase}
}

// GetFloorPlan GET /api/v1/businesses/:id/floor-plan
func (h *FloorPlanHandler) GetFloorPlan(c *gin.Context) {
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	plan, err := h.floorPlanUsecase.GetFloorPlan(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, plan)
}

// SaveFloorPlan reconciles the submitted floors and tables with the stored plan
// PUT /api/v1/businesses/:id/floor-plan
func (h *FloorPlanHandler) SaveFloorPlan(c *gin.Context) {
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.FloorPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}
	input.BusinessID = businessID

	summary, err := h.floorPlanUsecase.SaveFloorPlan(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Floor plan saved", summary)
}

// DeleteFloor DELETE /api/v1/floors/:id
func (h *FloorPlanHandler) DeleteFloor(c *gin.Context) {
	floorID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.floorPlanUsecase.DeleteFloor(c.Request.Context(), floorID); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Floor deleted", nil)
}
