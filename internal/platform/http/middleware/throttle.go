package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ipo_backend/internal/platform/http/response"
)

// Limiter decides whether one more attempt for key is allowed.
type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

// Throttle rejects a client IP that exceeds the limiter with 429 and a
// Retry-After header in whole seconds.
func Throttle(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := l.Allow(c.ClientIP())
		if ok {
			c.Next()
			return
		}
		secs := int(math.Ceil(wait.Seconds()))
		if secs < 1 {
			secs = 1
		}
		logrus.WithFields(logrus.Fields{
			"remote_addr": c.ClientIP(),
			"path":        c.FullPath(),
		}).Warn("request throttled")
		c.Header("Retry-After", strconv.Itoa(secs))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorResponse{
			Error: "too many requests",
			Kind:  "rate_limited",
		})
	}
}
