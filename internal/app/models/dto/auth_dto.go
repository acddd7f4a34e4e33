package dto

import "github.com/yigit/campusportal/internal/app/models"

// LoginRequest represents the login payload. Identifier is the user's email.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required" example:"student@example.com"`
	Password   string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse carries the signed token and the authenticated user.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn" example:"604800"`
	User      *models.User `json:"user"`
}
