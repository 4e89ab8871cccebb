package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/internal/interfaces/http/response"
)

type mediaReader interface {
	Read(ctx context.Context, key string) ([]byte, string, error)
}

// MediaHandler serves uploaded business images
type MediaHandler struct {
	media mediaReader
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(media mediaReader) *MediaHandler {
	return &MediaHandler{media: media}
}

// Serve GET /media/*key
func (h *MediaHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		response.Error(c, domainerrors.NotFound("Media not found"))
		return
	}

	data, contentType, err := h.media.Read(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}
