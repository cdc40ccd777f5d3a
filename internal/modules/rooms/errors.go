package rooms

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"hoteldesk/internal/domain"
	"hoteldesk/internal/pkg/response"
)

var (
	ErrInvalidPrice  = fmt.Errorf("%w: price must be numeric", domain.ErrValidation)
	ErrEmptyPatch    = fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	ErrUnknownFilter = fmt.Errorf("%w: status filter must be available or booked", domain.ErrValidation)
)

// WriteError maps hotel errors onto the response envelope.
func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, domain.ErrPersistence):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "PERSISTENCE_ERROR", "Failed to save hotel state")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
