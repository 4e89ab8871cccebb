package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/pkg/saga"
	"slotzi.backend/pkg/utils"
)

func businessRoutes(svc *MockBusinessService, userID uuid.UUID) *gin.Engine {
	h := NewBusinessHandler(svc, 1<<20)
	r := newRouter(userID)
	r.GET("/businesses", h.ListBusinesses)
	r.POST("/businesses", h.CreateBusiness)
	r.GET("/businesses/:id", h.GetBusiness)
	r.PUT("/businesses/:id", h.UpdateBusiness)
	r.DELETE("/businesses/:id", h.DeleteBusiness)
	r.GET("/businesses/:id/logs", h.ListUpdateLogs)
	return r
}

func TestBusinessHandler_CreateJSON(t *testing.T) {
	userID := uuid.New()
	svc := new(MockBusinessService)
	created := &entities.Business{ID: uuid.New(), BusinessProfile: entities.BusinessProfile{Name: "Sea Breeze"}}
	svc.On("CreateBusiness", mock.Anything, userID, mock.MatchedBy(func(in *entities.CreateBusinessInput) bool {
		return in.Name == "Sea Breeze" && in.PrimaryEmail == "hello@seabreeze.lk" && in.Logo == nil
	})).Return(created, nil)

	w := doJSON(businessRoutes(svc, userID), http.MethodPost, "/businesses", gin.H{"name": "Sea Breeze", "primaryEmail": "hello@seabreeze.lk"})

	requireStatus(t, w, http.StatusCreated)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Business created", env.Message)
	assert.Contains(t, string(env.Data), created.ID.String())
	svc.AssertExpectations(t)
}

func TestBusinessHandler_CreateMultipartWithLogo(t *testing.T) {
	userID := uuid.New()
	svc := new(MockBusinessService)
	logo := []byte{0x89, 'P', 'N', 'G'}
	svc.On("CreateBusiness", mock.Anything, userID, mock.MatchedBy(func(in *entities.CreateBusinessInput) bool {
		return in.Name == "Sea Breeze" && in.Logo != nil && bytes.Equal(in.Logo.Data, logo) &&
			in.Logo.Filename == "logo.png" && in.Logo.ContentType == "image/png" && in.Cover == nil
	})).Return(&entities.Business{ID: uuid.New()}, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("data", `{"name":"Sea Breeze"}`))
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="logo"; filename="logo.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = part.Write(logo)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/businesses", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	businessRoutes(svc, userID).ServeHTTP(w, req)

	requireStatus(t, w, http.StatusCreated)
	svc.AssertExpectations(t)
}

func TestBusinessHandler_CreateRequiresUser(t *testing.T) {
	svc := new(MockBusinessService)
	w := doJSON(businessRoutes(svc, uuid.Nil), http.MethodPost, "/businesses", gin.H{"name": "x"})

	requireStatus(t, w, http.StatusUnauthorized)
	svc.AssertNotCalled(t, "CreateBusiness", mock.Anything, mock.Anything, mock.Anything)
}

func TestBusinessHandler_CreateMalformedBody(t *testing.T) {
	svc := new(MockBusinessService)
	w := doJSON(businessRoutes(svc, uuid.New()), http.MethodPost, "/businesses", "{")

	requireStatus(t, w, http.StatusBadRequest)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestBusinessHandler_GetAndInvalidID(t *testing.T) {
	svc := new(MockBusinessService)
	id := uuid.New()
	svc.On("GetBusiness", mock.Anything, id).Return(&entities.BusinessDetail{Business: &entities.Business{ID: id, BusinessProfile: entities.BusinessProfile{Name: "Sea Breeze"}}}, nil)
	r := businessRoutes(svc, uuid.Nil)

	w := doJSON(r, http.MethodGet, "/businesses/"+id.String(), nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "Sea Breeze")

	w = doJSON(r, http.MethodGet, "/businesses/not-a-uuid", nil)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestBusinessHandler_GetNotFound(t *testing.T) {
	svc := new(MockBusinessService)
	svc.On("GetBusiness", mock.Anything, mock.Anything).Return(nil, domainerrors.NotFound("Business not found"))

	w := doJSON(businessRoutes(svc, uuid.Nil), http.MethodGet, "/businesses/"+uuid.NewString(), nil)
	requireStatus(t, w, http.StatusNotFound)
	assert.Equal(t, "Business not found", decodeEnvelope(t, w).Message)
}

func TestBusinessHandler_ListPagination(t *testing.T) {
	svc := new(MockBusinessService)
	svc.On("ListBusinesses", mock.Anything, utils.PaginationParams{Page: 2, Limit: 5}).
		Return([]*entities.Business{{BusinessProfile: entities.BusinessProfile{Name: "A"}}}, utils.PaginationMeta{Page: 2, Limit: 5, TotalCount: 6, TotalPages: 2}, nil)

	w := doJSON(businessRoutes(svc, uuid.Nil), http.MethodGet, "/businesses?page=2&limit=5", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), `"totalPages":2`)
	svc.AssertExpectations(t)
}

func TestBusinessHandler_UpdateReturnsChangeLog(t *testing.T) {
	userID, businessID := uuid.New(), uuid.New()
	svc := new(MockBusinessService)
	svc.On("UpdateBusiness", mock.Anything, userID, businessID, mock.MatchedBy(func(p *entities.BusinessPatch) bool {
		return p.Name != nil && *p.Name == "Sea Breeze Cafe" && len(p.Relations) == 1
	})).Return(&entities.BusinessUpdateResult{BusinessID: businessID, ChangeLog: []string{`Name changed from "Sea Breeze" to "Sea Breeze Cafe"`}}, nil)

	w := doJSON(businessRoutes(svc, userID), http.MethodPut, "/businesses/"+businessID.String(), gin.H{
		"name":          "Sea Breeze Cafe",
		"userRelations": []gin.H{{"username": "amal", "type": "Admin"}},
	})

	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "changeLogs")
	assert.Contains(t, w.Body.String(), "Sea Breeze Cafe")
	svc.AssertExpectations(t)
}

func TestBusinessHandler_UpdateRolledBack(t *testing.T) {
	userID, businessID := uuid.New(), uuid.New()
	svc := new(MockBusinessService)
	rolled := domainerrors.NewAppError(http.StatusInternalServerError, domainerrors.CodeInternalError,
		"Failed to update business, changes have been rolled back",
		&saga.Error{Saga: "business_update", Step: "contacts", Err: errors.New("db down")})
	svc.On("UpdateBusiness", mock.Anything, userID, businessID, mock.Anything).Return(nil, rolled)

	w := doJSON(businessRoutes(svc, userID), http.MethodPut, "/businesses/"+businessID.String(), gin.H{"name": "x"})

	requireStatus(t, w, http.StatusInternalServerError)
	assert.Equal(t, "Failed to update business, changes have been rolled back", decodeEnvelope(t, w).Message)
}

func TestBusinessHandler_DeleteAndLogs(t *testing.T) {
	userID, businessID := uuid.New(), uuid.New()
	svc := new(MockBusinessService)
	svc.On("DeleteBusiness", mock.Anything, userID, businessID).Return(nil)
	svc.On("ListUpdateLogs", mock.Anything, businessID, 5).Return([]*entities.BusinessUpdateLog{{Description: "Business created"}}, nil)
	r := businessRoutes(svc, userID)

	w := doJSON(r, http.MethodDelete, "/businesses/"+businessID.String(), nil)
	requireStatus(t, w, http.StatusOK)

	w = doJSON(r, http.MethodGet, "/businesses/"+businessID.String()+"/logs?limit=5", nil)
	requireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "Business created")
	svc.AssertExpectations(t)
}

func TestBusinessHandler_DeleteForbidden(t *testing.T) {
	userID, businessID := uuid.New(), uuid.New()
	svc := new(MockBusinessService)
	svc.On("DeleteBusiness", mock.Anything, userID, businessID).Return(domainerrors.Forbidden("Only the owner can delete a business"))

	w := doJSON(businessRoutes(svc, userID), http.MethodDelete, "/businesses/"+businessID.String(), nil)
	requireStatus(t, w, http.StatusForbidden)
}
