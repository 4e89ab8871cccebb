package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"slotzi.backend/internal/domain/entities"
	domainerrors "slotzi.backend/internal/domain/errors"
)

const (
	formDataField  = "data"
	formLogoField  = "logo"
	formCoverField = "cover"
)

// bindBusinessForm decodes a business form. JSON bodies carry no images;
// multipart bodies carry the JSON document in the "data" field plus
// optional "logo" and "cover" files.
func bindBusinessForm(c *gin.Context, dst any, maxUpload int64) (logo, cover *entities.MediaUpload, err error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(dst); err != nil {
			return nil, nil, domainerrors.BadRequest("Invalid request body")
		}
		return nil, nil, nil
	}

	if maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*maxUpload+1<<20)
	}
	if err := json.Unmarshal([]byte(c.PostForm(formDataField)), dst); err != nil {
		return nil, nil, domainerrors.BadRequest("Invalid form data")
	}
	if logo, err = formImage(c, formLogoField, maxUpload); err != nil {
		return nil, nil, err
	}
	if cover, err = formImage(c, formCoverField, maxUpload); err != nil {
		return nil, nil, err
	}
	return logo, cover, nil
}

func formImage(c *gin.Context, field string, maxUpload int64) (*entities.MediaUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, domainerrors.BadRequest("Invalid " + field + " upload")
	}
	if maxUpload > 0 && header.Size > maxUpload {
		return nil, domainerrors.BadRequest("Image exceeds the maximum upload size")
	}
	data, err := readFormFile(header)
	if err != nil {
		return nil, domainerrors.BadRequest("Invalid " + field + " upload")
	}
	return &entities.MediaUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.BadRequest("Invalid " + name)
	}
	return id, nil
}
