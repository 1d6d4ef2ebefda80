package models

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the verified caller of a request. It is built once by the auth
// resolver and never mutated afterwards.
type Identity struct {
	UserID    uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// IdentityResponse mirrors the token payload for GET /auth/me.
type IdentityResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Iat  int64  `json:"iat"`
	Exp  int64  `json:"exp"`
}

func (i Identity) Response() IdentityResponse {
	return IdentityResponse{
		ID:   i.UserID.String(),
		Name: i.Name,
		Iat:  i.IssuedAt.Unix(),
		Exp:  i.ExpiresAt.Unix(),
	}
}

// TokenResponse is returned by sign-up and sign-in.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int    `json:"expiresIn"`
}
