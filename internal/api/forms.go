package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/models"
)

// FormHandler serves intake form management endpoints.
type FormHandler struct {
	repo FormRepository
	log  *logrus.Logger
}

// NewFormHandler creates a FormHandler with the given service and logger.
func NewFormHandler(repo FormRepository, log *logrus.Logger) *FormHandler {
	return &FormHandler{repo: repo, log: log}
}

type createFormRequest struct {
	Slug          string `json:"slug"`
	RetentionDays int    `json:"retentionDays"`
}

func (r createFormRequest) Validate() error {
	if r.Slug == "" {
		return models.ErrMissingSlug
	}
	if len(r.Slug) > 128 {
		return models.ErrFieldTooLong("slug", 128)
	}
	return nil
}

// Create handles POST /api/v1/forms.
func (h *FormHandler) Create(c *gin.Context) {
	var req createFormRequest
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

	form, err := h.repo.CreateForm(c.Request.Context(), firmID, req.Slug, req.RetentionDays)
	if err != nil {
		respondServiceError(c, h.log, "creating form", err)

		return
	}

	c.JSON(http.StatusCreated, form)
}

// Get handles GET /api/v1/forms/:slug.
func (h *FormHandler) Get(c *gin.Context) {
	slug := c.Param("slug")
	if err := validatePathID(slug); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	firmID := getFirmID(c)
	if firmID == "" {
		return
	}

	form, err := h.repo.GetFormBySlug(c.Request.Context(), firmID, slug)
	if err != nil {
		respondServiceError(c, h.log, "getting form", err)

		return
	}

	c.JSON(http.StatusOK, form)
}

// List handles GET /api/v1/forms.
func (h *FormHandler) List(c *gin.Context) {
	firmID := getFirmID(c)
	if firmID == "" {
		return
	}

	forms, err := h.repo.ListForms(c.Request.Context(), firmID)
	if err != nil {
		respondServiceError(c, h.log, "listing forms", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"forms": forms, "count": len(forms)})
}
