package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mammothos/mamoart-backend/internal/api/shared/errors"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, errors.ErrorResponse{Error: errors.NewBadRequestError(message, details...)})
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, errors.ErrorResponse{Error: errors.NewNotFoundError(message, details...)})
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, errors.ErrorResponse{Error: errors.NewValidationError(details)})
}

// respondUnauthorized responds with an unauthorized error
func respondUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, errors.ErrorResponse{Error: errors.NewUnauthorizedError(message)})
}

// respondNotAcceptable responds with a not acceptable error
func respondNotAcceptable(c *gin.Context, message string) {
	c.JSON(http.StatusNotAcceptable, errors.ErrorResponse{Error: errors.NewNotAcceptableError(message)})
}

// respondInternalError responds with an internal server error
func respondInternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, errors.ErrorResponse{Error: errors.NewInternalError(message)})
}
