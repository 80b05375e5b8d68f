package dto

import "time"

// AdminTokenRequest exchanges the admin key for a bearer token
type AdminTokenRequest struct {
	Key string `json:"key" binding:"required" example:"s3cret-admin-key"`
}

// AdminTokenResponse carries a signed admin token
type AdminTokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType" example:"Bearer"`
	ExpiresIn   int       `json:"expiresIn" example:"3600"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
