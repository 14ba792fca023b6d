package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/models"
)

// UploadHandler serves document upload endpoints.
type UploadHandler struct {
	repo UploadRepository
	log  *logrus.Logger
}

// NewUploadHandler creates an UploadHandler with the given service and logger.
func NewUploadHandler(repo UploadRepository, log *logrus.Logger) *UploadHandler {
	return &UploadHandler{repo: repo, log: log}
}

// Create handles POST /api/v1/uploads.
func (h *UploadHandler) Create(c *gin.Context) {
	var req models.CreateUploadRequest
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

	up, err := h.repo.CreateUpload(c.Request.Context(), firmID, req)
	if err != nil {
		respondServiceError(c, h.log, "creating upload", err)

		return
	}

	c.JSON(http.StatusCreated, up)
}

// Get handles GET /api/v1/uploads/:id.
func (h *UploadHandler) Get(c *gin.Context) {
	uploadID := c.Param("id")
	if err := validatePathID(uploadID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	firmID := getFirmID(c)
	if firmID == "" {
		return
	}

	up, err := h.repo.GetUpload(c.Request.Context(), firmID, uploadID)
	if err != nil {
		respondServiceError(c, h.log, "getting upload", err)

		return
	}

	c.JSON(http.StatusOK, up)
}

// List handles GET /api/v1/uploads.
func (h *UploadHandler) List(c *gin.Context) {
	firmID := getFirmID(c)
	if firmID == "" {
		return
	}

	limit := parseInt(c.Query("limit"), 50)

	uploads, err := h.repo.ListUploads(c.Request.Context(), firmID, limit)
	if err != nil {
		respondServiceError(c, h.log, "listing uploads", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"uploads": uploads, "count": len(uploads)})
}
