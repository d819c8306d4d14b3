// Package handler provides HTTP handlers for platform endpoints.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Pinger checks a backing store. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health returns the /healthz handler. With a nil pinger only liveness is
// reported; otherwise a failed ping answers 503.
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		status, body := http.StatusOK, gin.H{"status": "ok"}
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logrus.WithError(err).Warn("health check: database ping failed")
				status, body = http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"}
			} else {
				body["database"] = "up"
			}
		}

		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}
		c.JSON(status, body)
	}
}
