package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/httputil"
	"github.com/crewline/crewline/internal/metrics"
	"github.com/crewline/crewline/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternalError   = "internal_error"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeForbidden       = "forbidden"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeValidationError = "validation_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondDomainError maps the typed domain errors onto HTTP responses.
// Anything unrecognized is logged and reported as a 500.
func respondDomainError(c *gin.Context, log *logrus.Logger, err error, op string) {
	var filterErr *models.InvalidFilterError

	switch {
	case errors.As(err, &filterErr):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, filterErr.Error())
	case errors.Is(err, models.ErrInvalidCursor),
		errors.Is(err, models.ErrInvalidLimit):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, models.ErrCallNotFound),
		errors.Is(err, models.ErrJobNotFound),
		errors.Is(err, models.ErrContactNotFound),
		errors.Is(err, models.ErrFollowUpNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, models.ErrNoSession):
		respondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid or expired session")
	case errors.Is(err, models.ErrForbidden):
		respondError(c, http.StatusForbidden, ErrCodeForbidden, "insufficient role")
	default:
		log.WithError(err).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
