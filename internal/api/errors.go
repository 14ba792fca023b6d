package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/httputil"
	"github.com/lexintake/lexintake/internal/metrics"
	"github.com/lexintake/lexintake/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternalError   = "internal_error"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeValidationError = "validation_error"
	ErrCodeConflict        = "conflict"
	ErrCodeGone            = "gone"
	ErrCodeUnavailable     = "store_unavailable"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// validationSentinels are service-level errors that map to 400.
var validationSentinels = []error{
	models.ErrMissingSlug,
	models.ErrMissingNarrative,
	models.ErrMissingEmail,
	models.ErrMissingConsent,
	models.ErrMissingFilename,
	models.ErrMissingText,
	models.ErrSummaryTooShort,
	models.ErrInvalidStatus,
}

// respondServiceError translates a service error into the standard envelope.
// Unrecognized errors are logged and reported as opaque 500s.
func respondServiceError(c *gin.Context, log *logrus.Logger, op string, err error) {
	switch {
	case errors.Is(err, models.ErrIntakeNotFound),
		errors.Is(err, models.ErrUploadNotFound),
		errors.Is(err, models.ErrFormNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, models.ErrDuplicateKey):
		respondError(c, http.StatusConflict, ErrCodeConflict, "record already exists")
	case errors.Is(err, models.ErrRetentionExpired):
		respondError(c, http.StatusGone, ErrCodeGone, "record past its retention period")
	case errors.Is(err, models.ErrStoreUnavailable):
		respondError(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "store unavailable")
	case isValidationError(err):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	default:
		log.WithError(err).Error(op)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}
