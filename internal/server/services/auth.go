// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login, renewal of access
// credentials from a stored session credential, and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/accountstore"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/sessionstore"
)

// bcrypt ignores everything past this many bytes of a password.
const maxPasswordBytes = 72

// AccountView is the part of an account that may leave the server.
type AccountView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Result is returned by Register and Login.
type Result struct {
	Account      AccountView `json:"user"`
	AccessToken  string      `json:"accessToken"`
	SessionToken string      `json:"refreshToken"`
}

// Renewed is returned by Renew.
type Renewed struct {
	AccessToken string `json:"accessToken"`
}

// AuthService composes the token issuer, the verifier, the session store and
// the account store.
type AuthService struct {
	accounts *accountstore.Store
	sessions *sessionstore.Store
	issuer   *auth.TokenIssuer
	verifier *auth.Verifier

	logoutScope string
	log         logging.Logger
	metrics     *metrics.Registry
}

// Option customises an AuthService.
type Option func(*options)

type options struct {
	now     func() time.Time
	metrics *metrics.Registry
}

// WithClock replaces the wall clock used to issue and verify credentials.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithMetrics records operation outcomes into m.
func WithMetrics(m *metrics.Registry) Option {
	return func(o *options) { o.metrics = m }
}

// NewAuthService builds an AuthService over the repositories vended by m.
// db may be nil when m does not need a database. It fails when the signing
// secrets in cfg are missing or equal.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger, opts ...Option) (*AuthService, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	keys := auth.KeysFromConfig(cfg)
	issuer, err := auth.NewTokenIssuerWithClock(keys, o.now)
	if err != nil {
		return nil, err
	}
	verifier, err := auth.NewVerifierWithClock(keys, o.now)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		accounts:    accountstore.New(m.Accounts(db), cfg.BcryptCost),
		sessions:    sessionstore.New(m.Sessions(db), cfg.BcryptCost),
		issuer:      issuer,
		verifier:    verifier,
		logoutScope: cfg.LogoutScope,
		log:         log.With("module", "auth"),
		metrics:     o.metrics,
	}, nil
}

// Verifier returns the verifier used by request gates.
func (s *AuthService) Verifier() *auth.Verifier { return s.verifier }

// Register creates an account and signs it in. A taken email yields a
// *common.ConflictError.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (res *Result, err error) {
	defer func() { s.observe("register", err) }()

	if err := validateRegistration(name, email, password); err != nil {
		return nil, err
	}

	_, err = s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, errDuplicateEmail()
	case !errors.Is(err, common.ErrorNotFound):
		s.log.Error(ctx, "account lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	acc, err := s.accounts.Create(ctx, name, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, errDuplicateEmail()
		}
		s.log.Error(ctx, "account creation failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "account registered", "account_id", acc.ID)
	return s.signIn(ctx, acc)
}

// Login checks email and password and signs the account in. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (res *Result, err error) {
	defer func() { s.observe("login", err) }()

	acc, err := s.accounts.VerifyCredential(ctx, email, password)
	if err != nil {
		var ae *common.AuthError
		if errors.As(err, &ae) {
			return nil, ae
		}
		s.log.Error(ctx, "credential check failed", "error", err)
		return nil, common.ErrorInternal
	}

	return s.signIn(ctx, acc)
}

// Renew mints a new access credential from a stored, unexpired session
// credential. The session credential itself is left untouched.
func (s *AuthService) Renew(ctx context.Context, sessionToken string) (res *Renewed, err error) {
	defer func() { s.observe("renew", err) }()

	accountID, err := s.verifier.VerifySession(sessionToken)
	if err != nil {
		return nil, err
	}

	recs, err := s.sessions.FindByAccount(ctx, accountID)
	if err != nil {
		s.log.Error(ctx, "session lookup failed", "account_id", accountID, "error", err)
		return nil, common.ErrorInternal
	}

	if findMatch(s.sessions, recs, sessionToken) == nil {
		return nil, common.NewAuthError(common.AuthInvalid)
	}

	access, err := s.issuer.IssueAccess(accountID)
	if err != nil {
		s.log.Error(ctx, "access credential signing failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.log.Debug(ctx, "access credential renewed", "account_id", accountID)
	return &Renewed{AccessToken: access}, nil
}

// Logout deletes the stored record of sessionToken, if any. Unknown or
// undecodable credentials are a successful no-op; only store failures are
// reported.
func (s *AuthService) Logout(ctx context.Context, sessionToken string) (err error) {
	defer func() { s.observe("logout", err) }()

	var recs []*models.SessionRecord
	if s.logoutScope == config.LogoutScopeGlobal {
		recs, err = s.sessions.FindAll(ctx)
	} else {
		accountID, decodeErr := s.verifier.DecodeSession(sessionToken)
		if decodeErr != nil {
			return nil
		}
		recs, err = s.sessions.FindByAccount(ctx, accountID)
	}
	if err != nil {
		s.log.Error(ctx, "session lookup failed", "error", err)
		return common.ErrorInternal
	}

	rec := findMatch(s.sessions, recs, sessionToken)
	if rec == nil {
		return nil
	}

	if err := s.sessions.Delete(ctx, rec.ID); err != nil {
		s.log.Error(ctx, "session delete failed", "session_id", rec.ID, "error", err)
		return common.ErrorInternal
	}

	s.log.Info(ctx, "session revoked", "account_id", rec.AccountID, "session_id", rec.ID)
	return nil
}

// Me returns the projection of the authenticated account.
func (s *AuthService) Me(ctx context.Context, accountID string) (*AccountView, error) {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, &common.NotFoundError{Resource: "account"}
		}
		s.log.Error(ctx, "account load failed", "account_id", accountID, "error", err)
		return nil, common.ErrorInternal
	}
	v := viewOf(acc)
	return &v, nil
}

func (s *AuthService) signIn(ctx context.Context, acc *models.Account) (*Result, error) {
	access, err := s.issuer.IssueAccess(acc.ID)
	if err != nil {
		s.log.Error(ctx, "access credential signing failed", "error", err)
		return nil, common.ErrorInternal
	}

	session, expiresAt, err := s.issuer.IssueSessionWithExpiry(acc.ID)
	if err != nil {
		s.log.Error(ctx, "session credential signing failed", "error", err)
		return nil, common.ErrorInternal
	}

	if _, err := s.sessions.Save(ctx, session, acc.ID, expiresAt); err != nil {
		s.log.Error(ctx, "session save failed", "account_id", acc.ID, "error", err)
		return nil, common.ErrorInternal
	}

	return &Result{Account: viewOf(acc), AccessToken: access, SessionToken: session}, nil
}

func (s *AuthService) observe(op string, err error) {
	s.metrics.ObserveAuth(op, resultLabel(err))
}

func findMatch(store *sessionstore.Store, recs []*models.SessionRecord, secret string) *models.SessionRecord {
	for _, rec := range recs {
		if store.VerifyMatch(rec, secret) {
			return rec
		}
	}
	return nil
}

func viewOf(acc *models.Account) AccountView {
	return AccountView{ID: acc.ID, Name: acc.Name, Email: acc.Email}
}

func errDuplicateEmail() error {
	return &common.ConflictError{Message: "User already exists with this email"}
}

func validateRegistration(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return &common.ValidationError{Field: "name", Message: "is required"}
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return &common.ValidationError{Field: "email", Message: "is not a valid address"}
	}
	if password == "" {
		return &common.ValidationError{Field: "password", Message: "is required"}
	}
	if len(password) > maxPasswordBytes {
		return &common.ValidationError{Field: "password", Message: "is too long"}
	}
	return nil
}

func resultLabel(err error) string {
	var (
		ae *common.AuthError
		ce *common.ConflictError
		ve *common.ValidationError
		ne *common.NotFoundError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ae):
		return ae.Kind.String()
	case errors.As(err, &ce):
		return "conflict"
	case errors.As(err, &ve):
		return "invalid_input"
	case errors.As(err, &ne):
		return "not_found"
	default:
		return "error"
	}
}
