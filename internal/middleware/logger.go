package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"studiobook/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request and recovers from panics. Errors attached
// with c.Error are logged with the request they belong to.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				requestFields(log, c, start).
					WithField("panic", fmt.Sprintf("%v", recovered)).
					WithField("stack", string(debug.Stack())).
					Error("request panic")
				if !c.Writer.Written() {
					response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				}
				c.Abort()
				return
			}

			entry := requestFields(log, c, start)
			for _, err := range c.Errors {
				entry.WithError(err.Err).Error("request error")
			}

			switch status := c.Writer.Status(); {
			case status >= http.StatusInternalServerError:
				entry.Error("request failed")
			case status >= http.StatusBadRequest:
				entry.Warn("request rejected")
			default:
				entry.Info("request")
			}
		}()

		c.Next()
	}
}

func requestFields(log logrus.FieldLogger, c *gin.Context, start time.Time) logrus.FieldLogger {
	return log.WithFields(logrus.Fields{
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"client_ip":  c.ClientIP(),
		"user_id":    c.GetInt64(CtxUserID),
		"request_id": c.GetString(CtxRequestID),
		"latency":    time.Since(start).String(),
	})
}
