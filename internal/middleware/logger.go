package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"hoteldesk/internal/pkg/logger"
	"hoteldesk/internal/pkg/response"
)

// ErrorLogger logs every request, the errors handlers attached to the
// context, and recovers from panics.
func ErrorLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				log.Error("request panic", append(requestFields(c, start),
					"error", err.Error(),
					"stack", string(debug.Stack()),
				)...)

				response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				return
			}

			for _, err := range c.Errors {
				log.Error("request error", append(requestFields(c, start),
					"type", fmt.Sprintf("%v", err.Type),
					"error", err.Error(),
				)...)
			}

			status := c.Writer.Status()
			switch {
			case status >= http.StatusInternalServerError:
				if len(c.Errors) == 0 {
					log.Error("request failed", requestFields(c, start)...)
				}
			case status >= http.StatusBadRequest:
				log.Warn("request rejected", requestFields(c, start)...)
			default:
				log.Debug("request served", requestFields(c, start)...)
			}
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, start time.Time) []interface{} {
	return []interface{}{
		"status", c.Writer.Status(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"query", c.Request.URL.RawQuery,
		"client_ip", c.ClientIP(),
		"request_id", RequestIDFrom(c),
		"latency", time.Since(start).String(),
	}
}
