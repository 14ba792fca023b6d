package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// FirmIDHeader carries the target firm on unauthenticated public requests
// (web-form submissions, mail gateway deliveries).
const FirmIDHeader = "X-Firm-Id"

// firmPeekLimit bounds how much of the body is read when falling back to
// the embedded firmId field.
const firmPeekLimit = 1 << 20

// ResolveFirm returns middleware that resolves the firm for public
// endpoints that carry no API key. Sources are consulted in a fixed
// priority order: authenticated claims (set by AuthMiddleware upstream),
// the X-Firm-Id header, the firmId query parameter, and finally a firmId
// field embedded in a JSON body. Lower-priority sources are ignored once
// one matches, so a forged body field can never override the header.
func ResolveFirm(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(FirmIDKey) != "" {
			c.Next()
			return
		}

		if id := c.GetHeader(FirmIDHeader); id != "" {
			c.Set(FirmIDKey, id)
			c.Next()
			return
		}

		if id := c.Query("firmId"); id != "" {
			c.Set(FirmIDKey, id)
			c.Next()
			return
		}

		if id := peekFirmID(c, log); id != "" {
			c.Set(FirmIDKey, id)
			c.Next()
			return
		}

		respondError(c, http.StatusBadRequest, "missing_firm", "no firm identifier on request")
	}
}

// peekFirmID reads a JSON body looking for a top-level firmId field,
// restoring the body for downstream handlers.
func peekFirmID(c *gin.Context, log *logrus.Logger) string {
	if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), "application/json") {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, firmPeekLimit))
	if err != nil {
		log.WithError(err).WithField("request_id", c.GetString(RequestIDKey)).Debug("reading body for firm resolution")
		return ""
	}

	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), c.Request.Body))

	var probe struct {
		FirmID string `json:"firmId"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}

	return probe.FirmID
}
