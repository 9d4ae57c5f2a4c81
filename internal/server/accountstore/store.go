// Package accountstore wraps the accounts repository with password hashing
// and credential checks.
package accountstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/accounts"
	"golang.org/x/crypto/bcrypt"
)

// Store hashes passwords on create and checks them on login. Emails are
// normalised before every lookup.
type Store struct {
	repo accounts.Repository
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// New returns a Store over repo. A cost outside bcrypt's range falls back to
// bcrypt.DefaultCost.
func New(repo accounts.Repository, cost int) *Store {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Store{repo: repo, cost: cost}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail returns common.ErrorNotFound when no account has the email.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	acc, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("error searching account: %w", err)
	}
	return acc, nil
}

// GetByID returns common.ErrorNotFound when the account is gone.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Account, error) {
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return acc, nil
}

// Create hashes password and stores a new account. A taken email yields
// common.ErrorAlreadyExists.
func (s *Store) Create(ctx context.Context, name, email, password string) (*models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	acc, err := s.repo.Create(ctx, &models.Account{
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return acc, nil
}

// VerifyCredential returns the account owning email if password matches.
// Unknown email and wrong password both yield AuthError{InvalidCredentials},
// and both pay for one bcrypt comparison.
func (s *Store) VerifyCredential(ctx context.Context, email, password string) (*models.Account, error) {
	acc, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
			return nil, common.NewAuthError(common.AuthInvalidCredentials)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return nil, common.NewAuthError(common.AuthInvalidCredentials)
	}
	return acc, nil
}

func (s *Store) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		// the error is impossible for a short fixed input and a valid cost
		s.dummy, _ = bcrypt.GenerateFromPassword([]byte("taskkeeper-dummy-password"), s.cost)
	})
	return s.dummy
}
