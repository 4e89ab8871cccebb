package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/internal/interfaces/http/middleware"
	"slotzi.backend/internal/interfaces/http/response"
)

type relationService interface {
	CreateBusinessRelation(ctx context.Context, supervisorID uuid.UUID, input *entities.CreateRelationInput) (*entities.BusinessUser, error)
	ListRelationsByUser(ctx context.Context, username string) ([]*entities.BusinessUser, error)
	ListRelationsByBusiness(ctx context.Context, businessID uuid.UUID) ([]*entities.BusinessUser, error)
}

// RelationHandler handles business-user relation endpoints
type RelationHandler struct {
	relationUsecase relationService
}

// NewRelationHandler creates a new relation handler
func NewRelationHandler(relationUsecase relationService) *RelationHandler {
	return &RelationHandler{relationUsecase: relationUsecase}
}

// CreateRelation adds an Admin or Staff user to a business, pending supervisor approval
// POST /api/v1/relations
func (h *RelationHandler) CreateRelation(c *gin.Context) {
	supervisorID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input entities.CreateRelationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid request body"))
		return
	}

	relation, err := h.relationUsecase.CreateBusinessRelation(c.Request.Context(), supervisorID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Relation created, awaiting verification", relation)
}

// ListByBusiness GET /api/v1/businesses/:id/relations
func (h *RelationHandler) ListByBusiness(c *gin.Context) {
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	relations, err := h.relationUsecase.ListRelationsByBusiness(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, relations)
}

// ListByUser GET /api/v1/users/:username/relations
func (h *RelationHandler) ListByUser(c *gin.Context) {
	relations, err := h.relationUsecase.ListRelationsByUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, relations)
}
