package api

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// requestLogger logs each request as one structured line and records the
// HTTP metrics. Client IPs are hashed before logging.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(duration.Seconds())

		evt := logger.Info()
		if status >= 500 {
			evt = logger.Error()
		} else if status >= 400 {
			evt = logger.Warn()
		}
		if len(c.Errors) > 0 {
			evt = evt.Str("error", c.Errors.String())
		}

		evt.
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("duration_ms", duration).
			Str("ip_hash", hashIP(c.ClientIP())).
			Int("bytes_sent", c.Writer.Size()).
			Msg("request")
	}
}

func hashIP(ip string) string {
	h := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(h[:])[:12]
}
