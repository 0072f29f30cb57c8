package auth

import (
	"time"
)

// AccessClaims is the payload carried inside a v4.local access token.
// The reader identity travels in the custom claims; the rest are the
// registered PASETO claims the parser validates on every request.
// v4.local tokens are encrypted, so none of this is client-readable.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Roles  bool   `json:"roles"`

	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}
