package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/models"
)

// ConsentHandler serves the per-firm AI consent endpoints.
type ConsentHandler struct {
	repo ConsentRepository
	log  *logrus.Logger
}

// NewConsentHandler creates a ConsentHandler with the given service and logger.
func NewConsentHandler(repo ConsentRepository, log *logrus.Logger) *ConsentHandler {
	return &ConsentHandler{repo: repo, log: log}
}

// Get handles GET /api/v1/consent.
func (h *ConsentHandler) Get(c *gin.Context) {
	firmID := getFirmID(c)
	if firmID == "" {
		return
	}

	rec, err := h.repo.GetConsent(c.Request.Context(), firmID)
	if err != nil {
		respondServiceError(c, h.log, "getting consent", err)

		return
	}

	c.JSON(http.StatusOK, rec)
}

// Set handles PUT /api/v1/consent.
func (h *ConsentHandler) Set(c *gin.Context) {
	var req models.SetConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	firmID := getFirmID(c)
	if firmID == "" {
		return
	}

	rec, err := h.repo.SetConsent(c.Request.Context(), firmID, getActorID(c), *req.Consent)
	if err != nil {
		respondServiceError(c, h.log, "setting consent", err)

		return
	}

	c.JSON(http.StatusOK, rec)
}
