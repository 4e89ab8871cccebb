package handlers

import (
	"bytes"
	"context"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/pkg/logger"
)

type businessVerifier interface {
	VerifyBusinessEmail(ctx context.Context, token string) (*entities.Business, error)
}

type relationVerifier interface {
	VerifyRelation(ctx context.Context, token string) (*entities.BusinessUser, error)
}

var verifyPage = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; background: #f5f5f5; display: flex; align-items: center; justify-content: center; height: 100vh; margin: 0; }
.card { background: #fff; padding: 2rem 3rem; border-radius: 8px; box-shadow: 0 2px 8px rgba(0,0,0,.1); text-align: center; }
.ok { color: #2e7d32; }
.fail { color: #c62828; }
</style>
</head>
<body>
<div class="card">
<h1 class="{{if .Success}}ok{{else}}fail{{end}}">{{.Title}}</h1>
<p>{{.Message}}</p>
</div>
</body>
</html>
`))

type verifyView struct {
	Success bool
	Title   string
	Message string
}

// VerifyHandler renders the pages behind emailed verification links
type VerifyHandler struct {
	businesses businessVerifier
	relations  relationVerifier
}

// NewVerifyHandler creates a new verification handler
func NewVerifyHandler(businesses businessVerifier, relations relationVerifier) *VerifyHandler {
	return &VerifyHandler{businesses: businesses, relations: relations}
}

// VerifyBusiness GET /verify/business?token=
func (h *VerifyHandler) VerifyBusiness(c *gin.Context) {
	business, err := h.businesses.VerifyBusinessEmail(c.Request.Context(), c.Query("token"))
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	h.render(c, http.StatusOK, verifyView{
		Success: true,
		Title:   "Email verified",
		Message: business.Name + " is now verified. You can close this page.",
	})
}

// VerifyRelation GET /verify/relation?token=
func (h *VerifyHandler) VerifyRelation(c *gin.Context) {
	if _, err := h.relations.VerifyRelation(c.Request.Context(), c.Query("token")); err != nil {
		h.renderFailure(c, err)
		return
	}
	h.render(c, http.StatusOK, verifyView{
		Success: true,
		Title:   "User approved",
		Message: "The user can now access the business. You can close this page.",
	})
}

func (h *VerifyHandler) renderFailure(c *gin.Context, err error) {
	appErr := domainerrors.FromError(err)
	message := appErr.Message
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Verification failed", zap.Error(err))
		message = "Something went wrong. Please try again later."
	}
	h.render(c, appErr.Status, verifyView{Title: "Verification failed", Message: message})
}

func (h *VerifyHandler) render(c *gin.Context, status int, view verifyView) {
	var buf bytes.Buffer
	if err := verifyPage.Execute(&buf, view); err != nil {
		logger.Error(c.Request.Context(), "Failed to render verification page", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
