package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/models"
)

// AuditHandler serves audit trail query endpoints.
type AuditHandler struct {
	repo AuditRepository
	log  *logrus.Logger
}

// NewAuditHandler creates an AuditHandler with the given service and logger.
func NewAuditHandler(repo AuditRepository, log *logrus.Logger) *AuditHandler {
	return &AuditHandler{repo: repo, log: log}
}

// Query handles GET /api/v1/audit against the durable audit store.
func (h *AuditHandler) Query(c *gin.Context) {
	firmID := getFirmID(c)
	if firmID == "" {
		return
	}

	opts := models.AuditQueryOpts{
		EntityType: c.Query("entityType"),
		EntityID:   c.Query("entityId"),
		EventType:  c.Query("eventType"),
		Limit:      parseInt(c.Query("limit"), 50),
		Offset:     parseOffset(c.Query("offset")),
	}

	if since := c.Query("since"); since != "" {
		ts, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "since must be RFC 3339")

			return
		}
		opts.Since = &ts
	}

	events, hasMore, err := h.repo.QueryAudit(c.Request.Context(), firmID, opts)
	if err != nil {
		respondServiceError(c, h.log, "querying audit log", err)

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":   events,
		"count":    len(events),
		"has_more": hasMore,
	})
}

// Recent handles GET /api/v1/audit/recent from the in-memory ring. This feed
// survives even when the durable store is unavailable.
func (h *AuditHandler) Recent(c *gin.Context) {
	firmID := getFirmID(c)
	if firmID == "" {
		return
	}

	n := parseInt(c.Query("limit"), 50)

	events := h.repo.RecentAudit(firmID, n)

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}
