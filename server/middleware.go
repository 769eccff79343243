package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xh3b4sd/loadcast/ctxlog"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-Id"

// RequestLogger assigns each request an id, places a logger tagged with it
// into the request context and logs the request once it completed.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sta := time.Now()

		rid := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.NewString()
		}
		c.Header(RequestIDHeader, rid)

		req := log.With("request_id", rid)
		c.Request = c.Request.WithContext(ctxlog.WithLogger(c.Request.Context(), req))

		c.Next()

		lvl := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			lvl = slog.LevelError
		} else if c.Writer.Status() >= 400 {
			lvl = slog.LevelWarn
		}

		req.Log(c.Request.Context(), lvl, "request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(sta),
		)
	}
}
