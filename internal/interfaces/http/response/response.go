package response

import (
	"github.com/gin-gonic/gin"
	domainerrors "slotzi.backend/internal/domain/errors"
	"slotzi.backend/pkg/utils"
)

// Envelope is the body shape of every JSON response
type Envelope struct {
	Success    bool                  `json:"success"`
	Code       string                `json:"code,omitempty"`
	Message    string                `json:"message,omitempty"`
	Data       interface{}           `json:"data,omitempty"`
	Pagination *utils.PaginationMeta `json:"pagination,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// SuccessWithMessage sends a success response carrying a human-readable message
func SuccessWithMessage(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Paginated sends a page of results with its pagination metadata
func Paginated(c *gin.Context, status int, data interface{}, meta utils.PaginationMeta) {
	c.JSON(status, Envelope{Success: true, Data: data, Pagination: &meta})
}

// Error sends an error response. Errors that are not AppErrors are mapped
// through the domain taxonomy, defaulting to 500.
func Error(c *gin.Context, err error) {
	appErr := domainerrors.FromError(err)
	c.JSON(appErr.Status, Envelope{
		Success: false,
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, Envelope{
		Success: false,
		Code:    code,
		Message: message,
	})
}
