package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/internal/interfaces/http/middleware"
	"slotzi.backend/internal/interfaces/http/response"
	"slotzi.backend/pkg/utils"
)

type businessService interface {
	CreateBusiness(ctx context.Context, userID uuid.UUID, input *entities.CreateBusinessInput) (*entities.Business, error)
	GetBusiness(ctx context.Context, id uuid.UUID) (*entities.BusinessDetail, error)
	ListBusinesses(ctx context.Context, pagination utils.PaginationParams) ([]*entities.Business, utils.PaginationMeta, error)
	ListUpdateLogs(ctx context.Context, id uuid.UUID, limit int) ([]*entities.BusinessUpdateLog, error)
	UpdateBusiness(ctx context.Context, userID, businessID uuid.UUID, patch *entities.BusinessPatch) (*entities.BusinessUpdateResult, error)
	DeleteBusiness(ctx context.Context, userID, id uuid.UUID) error
}

// BusinessHandler handles business endpoints
type BusinessHandler struct {
	businessUsecase businessService
	maxUpload       int64
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(businessUsecase businessService, maxUpload int64) *BusinessHandler {
	return &BusinessHandler{businessUsecase: businessUsecase, maxUpload: maxUpload}
}

// CreateBusiness registers a business owned by the caller
// POST /api/v1/businesses
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input entities.CreateBusinessInput
	logo, cover, err := bindBusinessForm(c, &input, h.maxUpload)
	if err != nil {
		response.Error(c, err)
		return
	}
	input.Logo, input.Cover = logo, cover

	business, err := h.businessUsecase.CreateBusiness(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Business created", business)
}

// GetBusiness returns a business with its location, emails, contacts and users
// GET /api/v1/businesses/:id
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.businessUsecase.GetBusiness(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// ListBusinesses GET /api/v1/businesses?page=&limit=
func (h *BusinessHandler) ListBusinesses(c *gin.Context) {
	pagination := utils.ParsePaginationParams(c.Query("page"), c.Query("limit"))

	businesses, meta, err := h.businessUsecase.ListBusinesses(c.Request.Context(), pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, http.StatusOK, businesses, meta)
}

// UpdateBusiness runs the business update and returns its change log
// PUT /api/v1/businesses/:id
func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}
	businessID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var patch entities.BusinessPatch
	logo, cover, err := bindBusinessForm(c, &patch, h.maxUpload)
	if err != nil {
		response.Error(c, err)
		return
	}
	patch.Logo, patch.Cover = logo, cover

	result, err := h.businessUsecase.UpdateBusiness(c.Request.Context(), userID, businessID, &patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Business updated successfully", result)
}

// DeleteBusiness DELETE /api/v1/businesses/:id
func (h *BusinessHandler) DeleteBusiness(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.businessUsecase.DeleteBusiness(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Business deleted", nil)
}

// ListUpdateLogs GET /api/v1/businesses/:id/logs?limit=
func (h *BusinessHandler) ListUpdateLogs(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	logs, err := h.businessUsecase.ListUpdateLogs(c.Request.Context(), id, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, logs)
}
