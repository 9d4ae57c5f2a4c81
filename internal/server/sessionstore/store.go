// Package sessionstore keeps hashed session credentials. The plaintext of a
// credential is hashed on Save and never stored, returned or logged.
package sessionstore

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/sessions"
	"golang.org/x/crypto/bcrypt"
)

// Store hashes session credentials with bcrypt and persists them through a
// sessions.Repository.
type Store struct {
	repo sessions.Repository
	cost int
}

// New returns a Store writing to repo with the given bcrypt cost. A cost
// outside bcrypt's range falls back to bcrypt.DefaultCost.
func New(repo sessions.Repository, cost int) *Store {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Store{repo: repo, cost: cost}
}

// prehash condenses the credential to 32 bytes. bcrypt reads at most 72
// bytes and signed credentials share long common prefixes.
func prehash(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// Save hashes secret and stores a new record for accountID.
func (s *Store) Save(ctx context.Context, secret, accountID string, expiresAt time.Time) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(secret), s.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing session credential: %w", err)
	}

	id, err := s.repo.Create(ctx, accountID, hash, expiresAt)
	if err != nil {
		return "", fmt.Errorf("error saving session: %w", err)
	}
	return id, nil
}

// FindByAccount returns every record of accountID, including expired ones.
func (s *Store) FindByAccount(ctx context.Context, accountID string) ([]*models.SessionRecord, error) {
	recs, err := s.repo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	return recs, nil
}

// FindAll returns every record in the store.
func (s *Store) FindAll(ctx context.Context) ([]*models.SessionRecord, error) {
	recs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	return recs, nil
}

// VerifyMatch reports whether secret is the credential rec was created from.
func (s *Store) VerifyMatch(rec *models.SessionRecord, secret string) bool {
	if rec == nil || len(rec.TokenHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(rec.TokenHash, prehash(secret)) == nil
}

// Delete removes a record. Deleting an absent record succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes every record whose expiry is not after now.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}
	return n, nil
}
