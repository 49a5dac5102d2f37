package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/newcooks/backend/internal/service"
)

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrDuplicateTitle),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrEmptyReview),
		errors.Is(err, service.ErrSamePassword),
		errors.Is(err, service.ErrInvalidActivationToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrActivationMail):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
