// Package auth issues and verifies the signed credentials of taskkeeper:
// short-lived access credentials and long-lived session credentials. Both
// are HS256 JWTs, each signed under its own secret.
package auth

import "github.com/golang-jwt/jwt/v5"

// Kind tells the two credential families apart inside the claims.
type Kind string

const (
	KindAccess  Kind = "access"
	KindSession Kind = "session"
)

// Claims is the payload of every credential.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	Kind      Kind   `json:"kind"`
}
