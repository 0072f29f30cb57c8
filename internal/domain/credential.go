package domain

import "time"

// Credential is the account service's record for one registered account.
// Its ID doubles as the profile document key.
type Credential struct {
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
}
