package models

import "time"

// Account is the owner of sessions. PasswordHash is a bcrypt hash and must
// never leave the server.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
