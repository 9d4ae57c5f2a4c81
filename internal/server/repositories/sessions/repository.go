// Package sessions declares the durable-store contract for hashed session
// credential records and provides PostgreSQL and in-memory implementations.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository stores session records. It never sees a plaintext credential.
type Repository interface {
	// Create stores a new record and returns its id.
	Create(ctx context.Context, accountID string, tokenHash []byte, expiresAt time.Time) (string, error)

	// FindByAccount returns every record of the account, expired or not.
	FindByAccount(ctx context.Context, accountID string) ([]*models.SessionRecord, error)

	// FindAll returns every record in the store.
	FindAll(ctx context.Context) ([]*models.SessionRecord, error)

	// DeleteByID removes a record. Deleting a non-existent record is not an error.
	DeleteByID(ctx context.Context, id string) error

	// DeleteExpired removes records whose expiry is not after now and reports
	// how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
