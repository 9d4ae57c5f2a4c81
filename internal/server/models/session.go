package models

import "time"

// SessionRecord is the stored form of an issued session credential. Only a
// salted hash of the credential is kept; ExpiresAt is fixed at creation.
type SessionRecord struct {
	ID        string
	AccountID string
	TokenHash []byte
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
