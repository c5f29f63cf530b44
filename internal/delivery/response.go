package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog_service/internal/domain"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
	})
}

// mapErrorToStatus translates the domain error taxonomy to HTTP status
// codes. Validation failures are client errors; anything unrecognized is a
// store or storage failure.
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrMissingFile),
		errors.Is(err, domain.ErrUnsupportedMediaType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
