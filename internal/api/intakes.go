package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/models"
)

// IntakeHandler serves intake submission and dashboard endpoints.
type IntakeHandler struct {
	repo IntakeRepository
	log  *logrus.Logger
}

// NewIntakeHandler creates an IntakeHandler with the given service and logger.
func NewIntakeHandler(repo IntakeRepository, log *logrus.Logger) *IntakeHandler {
	return &IntakeHandler{repo: repo, log: log}
}

// Submit handles POST /api/v1/forms/:slug/intakes (public web form).
func (h *IntakeHandler) Submit(c *gin.Context) {
	slug := c.Param("slug")
	if err := validatePathID(slug); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.SubmitIntakeRequest
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

	in, err := h.repo.SubmitIntake(c.Request.Context(), firmID, slug, req)
	if err != nil {
		respondServiceError(c, h.log, "submitting intake", err)

		return
	}

	c.JSON(http.StatusCreated, in)
}

// SubmitEmail handles POST /api/v1/intakes/email (mail gateway).
func (h *IntakeHandler) SubmitEmail(c *gin.Context) {
	var req models.EmailIntakeRequest
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

	in, err := h.repo.SubmitEmailIntake(c.Request.Context(), firmID, req)
	if err != nil {
		respondServiceError(c, h.log, "submitting email intake", err)

		return
	}

	c.JSON(http.StatusCreated, in)
}

// SubmitVoice handles POST /api/v1/intakes/voice (transcription service).
func (h *IntakeHandler) SubmitVoice(c *gin.Context) {
	var req models.VoiceIntakeRequest
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

	in, err := h.repo.SubmitVoiceIntake(c.Request.Context(), firmID, req)
	if err != nil {
		respondServiceError(c, h.log, "submitting voice intake", err)

		return
	}

	c.JSON(http.StatusCreated, in)
}

// List handles GET /api/v1/intakes (dashboard).
func (h *IntakeHandler) List(c *gin.Context) {
	firmID := getFirmID(c)
	if firmID == "" {
		return
	}

	filter := models.IntakeFilter{
		Area:    c.Query("area"),
		Urgency: models.Badge(c.Query("urgency")),
		From:    c.Query("from"),
		To:      c.Query("to"),
		Status:  models.IntakeStatus(c.Query("status")),
		Limit:   parseInt(c.Query("limit"), 50),
	}

	intakes, err := h.repo.ListIntakes(c.Request.Context(), firmID, filter)
	if err != nil {
		respondServiceError(c, h.log, "listing intakes", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"intakes": intakes, "count": len(intakes)})
}

// Get handles GET /api/v1/intakes/:id.
func (h *IntakeHandler) Get(c *gin.Context) {
	intakeID := c.Param("id")
	if err := validatePathID(intakeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	firmID := getFirmID(c)
	if firmID == "" {
		return
	}

	in, err := h.repo.GetIntake(c.Request.Context(), firmID, intakeID)
	if err != nil {
		respondServiceError(c, h.log, "getting intake", err)

		return
	}

	c.JSON(http.StatusOK, in)
}

// UpdateSummary handles PATCH /api/v1/intakes/:id/summary.
func (h *IntakeHandler) UpdateSummary(c *gin.Context) {
	intakeID := c.Param("id")
	if err := validatePathID(intakeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	firmID := getFirmID(c)
	if firmID == "" {
		return
	}

	in, err := h.repo.UpdateSummary(c.Request.Context(), firmID, intakeID, getActorID(c), req)
	if err != nil {
		respondServiceError(c, h.log, "updating intake summary", err)

		return
	}

	c.JSON(http.StatusOK, in)
}

// UpdateStatus handles PATCH /api/v1/intakes/:id/status.
func (h *IntakeHandler) UpdateStatus(c *gin.Context) {
	intakeID := c.Param("id")
	if err := validatePathID(intakeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	firmID := getFirmID(c)
	if firmID == "" {
		return
	}

	in, err := h.repo.UpdateStatus(c.Request.Context(), firmID, intakeID, getActorID(c), req)
	if err != nil {
		respondServiceError(c, h.log, "updating intake status", err)

		return
	}

	c.JSON(http.StatusOK, in)
}

// Export handles GET /api/v1/intakes/:id/export.
func (h *IntakeHandler) Export(c *gin.Context) {
	intakeID := c.Param("id")
	if err := validatePathID(intakeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	firmID := getFirmID(c)
	if firmID == "" {
		return
	}

	in, err := h.repo.ExportIntake(c.Request.Context(), firmID, intakeID)
	if err != nil {
		respondServiceError(c, h.log, "exporting intake", err)

		return
	}

	c.Header("Content-Disposition", `attachment; filename="intake-`+intakeID+`.json"`)
	c.JSON(http.StatusOK, in)
}
