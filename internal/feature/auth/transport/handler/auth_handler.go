// Package handler provides the HTTP handler for operator login.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ipo_backend/internal/feature/auth/domain"
	"ipo_backend/internal/feature/auth/transport/http/dto"
	"ipo_backend/internal/platform/http/response"
)

// AuthUsecase authenticates the operator.
type AuthUsecase interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler serves /api/auth.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /api/auth/login.
// - 400 on a malformed body
// - 401 on bad credentials, without saying which part was wrong
// - 200 with a token on success
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		logrus.WithField("remote_addr", c.ClientIP()).Warn("operator login failed")
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: domain.ErrInvalidCredentials.Error(), Kind: "unauthorized"})
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	logrus.WithField("remote_addr", c.ClientIP()).Info("operator logged in")
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
