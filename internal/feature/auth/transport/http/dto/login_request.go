// Package dto defines data transfer objects for the auth HTTP API.
package dto

// LoginReq is the body of POST /api/auth/login.
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued operator token.
type TokenResponse struct {
	Token string `json:"token"`
}
