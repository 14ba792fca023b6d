package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/middleware"
	"github.com/lexintake/lexintake/internal/ws"
)

// getFirmID extracts the resolved firm ID from the Gin context. The auth
// or firm-resolution middleware is responsible for setting it; a missing
// value on a registered route is a wiring bug, reported as 400.
func getFirmID(c *gin.Context) string {
	firmID := c.GetString(middleware.FirmIDKey)
	if firmID == "" {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "no firm resolved for request")

		return ""
	}

	return firmID
}

// getActorID returns the acting user for audit attribution, defaulting to
// "system" for machine-originated requests.
func getActorID(c *gin.Context) string {
	if actor := c.GetString(middleware.ActorIDKey); actor != "" {
		return actor
	}

	return "system"
}

func wsHandler(appCtx context.Context, log *logrus.Logger, hub *ws.Hub, corsOrigins []string, lookup middleware.FirmLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		firmID := getFirmID(c)
		if firmID == "" {
			return
		}

		// Extract the raw API key for periodic re-validation.
		apiKey := middleware.ExtractBearerToken(c)

		// CORS origins are reused as WebSocket origin patterns. The config
		// validator ensures these are safe host patterns (no wildcards etc.).
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns:       corsOrigins,
			CompressionMode:      websocket.CompressionContextTakeover,
			CompressionThreshold: 128,
		})
		if err != nil {
			log.WithError(err).Error("websocket accept failed")

			return
		}

		client := ws.NewClient(hub, conn, lookup, apiKey)
		client.FirmID = firmID
		hub.Register(client)

		// Derive a context that cancels when either the server shuts down or the request ends.
		wsCtx, wsCancel := context.WithCancel(appCtx)
		go func() {
			select {
			case <-c.Request.Context().Done():
				wsCancel()
			case <-wsCtx.Done():
			}
		}()

		go client.WritePump(wsCtx)
		client.ReadPump(wsCtx)
		wsCancel()
	}
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		if firmID := c.GetString(middleware.FirmIDKey); firmID != "" {
			fields["firm_id"] = firmID
		}
		log.WithFields(fields).Info("request")
	}
}

// maxPaginationLimit caps the maximum number of items per page.
const maxPaginationLimit = 500

// maxPaginationOffset caps the maximum offset for paginated queries.
const maxPaginationOffset = 100000

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}

	if v > maxPaginationLimit {
		return maxPaginationLimit
	}

	return v
}

func parseOffset(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}

	if v > maxPaginationOffset {
		return maxPaginationOffset
	}

	return v
}

var (
	errEmptyID = errors.New("id must not be empty")
	errLongID  = errors.New("id exceeds maximum length of 255")
)

// validatePathID checks that a path parameter ID is non-empty and within length limits.
func validatePathID(id string) error {
	if id == "" {
		return errEmptyID
	}
	if len(id) > 255 {
		return errLongID
	}
	return nil
}
