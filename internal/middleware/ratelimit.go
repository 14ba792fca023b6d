package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lexintake/lexintake/internal/metrics"
	"github.com/lexintake/lexintake/internal/ratelimit"
)

// RateLimit returns Gin middleware that checks the shared fixed-window
// limiter. Windows are keyed by the resolved firm, the acting user
// (falling back to the client IP when no actor is authenticated), and
// the route pattern, so one firm's users never share a window and
// distinct endpoints count separately. Requests that arrive before firm
// resolution key on the client IP instead. c.ClientIP() is safe from
// X-Forwarded-For spoofing because SetTrustedProxies(nil) in router.go
// disables proxy header trust.
//
// Every response carries the X-RateLimit-* headers so well-behaved
// clients can pace themselves instead of discovering the limit via 429s.
func RateLimit(limiter *ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		firm := c.GetString(FirmIDKey)
		if firm == "" {
			firm = c.ClientIP()
		}

		actor := c.GetString(ActorIDKey)
		if actor == "" {
			actor = c.ClientIP()
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		d := limiter.Check(firm + "|" + actor + "|" + route)

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

		if !d.Allowed {
			metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
			respondError(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")

			return
		}

		c.Next()
	}
}
