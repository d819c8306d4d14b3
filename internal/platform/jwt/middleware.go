package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"ipo_backend/internal/platform/http/response"
)

func abort(c *gin.Context, status int, kind, msg string) {
	c.AbortWithStatusJSON(status, response.ErrorResponse{Error: msg, Kind: kind})
}

// AuthRequired admits requests carrying a valid operator bearer token and
// stores the token subject under ContextSubject.
//   - 401 when the token is missing, malformed, expired or badly signed
//   - 403 when the token is valid but lacks the operator role
//   - 500 when no secret is configured
func AuthRequired(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)

	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		if len(key) == 0 {
			logrus.Error("operator auth is enabled but JWT_SECRET is empty")
			abort(c, http.StatusInternalServerError, "internal", "server misconfigured")
			return
		}

		var claims Claims
		if _, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
			return key, nil
		}); err != nil {
			_ = c.Error(err)
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}
		if claims.Role != RoleOperator {
			abort(c, http.StatusForbidden, "forbidden", "operator role required")
			return
		}

		c.Set(ContextSubject, claims.Subject)
		c.Next()
	}
}
