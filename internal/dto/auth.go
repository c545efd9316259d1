package dto

import "time"

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleTokenSignInRequest carries a Google ID token obtained by the frontend.
type GoogleTokenSignInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

type RefreshRequest struct {
	UserID string `json:"userID" binding:"required"`
}
