package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks presented credentials. It is stateless and never touches
// the session store, so an access credential stays valid until it expires.
type Verifier struct {
	keys Keys
	now  func() time.Time
}

// NewVerifier validates keys and returns a verifier using the wall clock.
func NewVerifier(keys Keys) (*Verifier, error) {
	return NewVerifierWithClock(keys, time.Now)
}

// NewVerifierWithClock is NewVerifier with an explicit clock.
func NewVerifierWithClock(keys Keys, now func() time.Time) (*Verifier, error) {
	if err := keys.validate(); err != nil {
		return nil, err
	}
	return &Verifier{keys: keys, now: now}, nil
}

// ParseBearer extracts the credential from an Authorization header value.
func ParseBearer(header string) (string, bool) {
	rest, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok {
		return "", false
	}
	token := strings.TrimSpace(rest)
	return token, token != ""
}

// Verify checks an Authorization header carrying an access credential and
// returns the account id embedded in it. Failures are *common.AuthError of
// kind MissingCredential, Expired, Invalid or Internal.
func (v *Verifier) Verify(header string) (string, error) {
	token, ok := ParseBearer(header)
	if !ok {
		return "", common.NewAuthError(common.AuthMissingCredential)
	}
	return v.VerifyToken(token)
}

// VerifyToken checks a bare access credential.
func (v *Verifier) VerifyToken(token string) (string, error) {
	claims, err := v.parse(token, KindAccess, true)
	if err != nil {
		return "", err
	}
	return claims.AccountID, nil
}

// VerifySession checks a session credential's signature and expiry. Every
// failure other than expiry is reported as Invalid.
func (v *Verifier) VerifySession(token string) (string, error) {
	claims, err := v.parse(token, KindSession, true)
	if err != nil {
		if common.IsAuthKind(err, common.AuthExpired) {
			return "", err
		}
		return "", common.NewAuthError(common.AuthInvalid)
	}
	return claims.AccountID, nil
}

// DecodeSession checks a session credential's signature only and returns the
// account id. Expiry is ignored: it lets logout find rows that outlived
// their credential.
func (v *Verifier) DecodeSession(token string) (string, error) {
	claims, err := v.parse(token, KindSession, false)
	if err != nil {
		return "", common.NewAuthError(common.AuthInvalid)
	}
	return claims.AccountID, nil
}

func (v *Verifier) parse(token string, kind Kind, validateTime bool) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if !validateTime {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.keys.secret(kind), nil
	}, opts...)
	if err != nil {
		return nil, classify(err)
	}

	if claims.Kind != kind {
		return nil, common.NewAuthError(common.AuthInvalid)
	}
	if claims.AccountID == "" {
		return nil, common.NewAuthError(common.AuthInternal)
	}
	return claims, nil
}

// classify folds jwt errors into the fixed AuthError categories. The
// signature check runs before claims validation, so Expired is only ever
// reported for a correctly signed credential.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.NewAuthError(common.AuthInvalid)
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.NewAuthError(common.AuthExpired)
	default:
		return common.NewAuthError(common.AuthInternal)
	}
}
