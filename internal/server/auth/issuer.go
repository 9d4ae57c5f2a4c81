package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrMissingSecret is returned by the constructors when a signing secret is
// absent or both secrets are the same. It is a startup condition only.
var ErrMissingSecret = errors.New("token signing secrets must be set and distinct")

// Keys holds the signing material and lifetimes of both credential kinds.
type Keys struct {
	AccessSecret  []byte
	SessionSecret []byte
	AccessTTL     time.Duration
	SessionTTL    time.Duration
}

// KeysFromConfig extracts Keys from the server configuration.
func KeysFromConfig(cfg *config.Config) Keys {
	return Keys{
		AccessSecret:  []byte(cfg.AccessTokenSecret),
		SessionSecret: []byte(cfg.SessionTokenSecret),
		AccessTTL:     cfg.AccessTokenValidityDuration,
		SessionTTL:    cfg.SessionTokenValidityDuration,
	}
}

func (k Keys) validate() error {
	if len(k.AccessSecret) == 0 || len(k.SessionSecret) == 0 || string(k.AccessSecret) == string(k.SessionSecret) {
		return ErrMissingSecret
	}
	return nil
}

func (k Keys) secret(kind Kind) []byte {
	if kind == KindSession {
		return k.SessionSecret
	}
	return k.AccessSecret
}

// TokenIssuer mints access and session credentials.
type TokenIssuer struct {
	keys Keys
	now  func() time.Time
}

// NewTokenIssuer validates keys and returns an issuer using the wall clock.
func NewTokenIssuer(keys Keys) (*TokenIssuer, error) {
	return NewTokenIssuerWithClock(keys, time.Now)
}

// NewTokenIssuerWithClock is NewTokenIssuer with an explicit clock.
func NewTokenIssuerWithClock(keys Keys, now func() time.Time) (*TokenIssuer, error) {
	if err := keys.validate(); err != nil {
		return nil, err
	}
	return &TokenIssuer{keys: keys, now: now}, nil
}

// IssueAccess returns an access credential for accountID.
func (i *TokenIssuer) IssueAccess(accountID string) (string, error) {
	token, _, err := i.issue(accountID, KindAccess, i.keys.AccessTTL)
	return token, err
}

// IssueSession returns a session credential for accountID.
func (i *TokenIssuer) IssueSession(accountID string) (string, error) {
	token, _, err := i.issue(accountID, KindSession, i.keys.SessionTTL)
	return token, err
}

// IssueSessionWithExpiry is IssueSession that also reports the signed expiry,
// so the stored record can carry exactly the same instant.
func (i *TokenIssuer) IssueSessionWithExpiry(accountID string) (string, time.Time, error) {
	return i.issue(accountID, KindSession, i.keys.SessionTTL)
}

func (i *TokenIssuer) issue(accountID string, kind Kind, ttl time.Duration) (string, time.Time, error) {
	now := i.now()
	expiresAt := jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: expiresAt,
		},
		AccountID: accountID,
		Kind:      kind,
	})

	tokenString, err := token.SignedString(i.keys.secret(kind))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt.Time, nil
}
