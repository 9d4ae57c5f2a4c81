package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps records in process memory. It backs the server when
// no database DSN is configured and is used by service tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]models.SessionRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]models.SessionRecord)}
}

func (r *MemoryRepository) Create(ctx context.Context, accountID string, tokenHash []byte, expiresAt time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	now := time.Now()
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[id] = models.SessionRecord{
		ID:        id,
		AccountID: accountID,
		TokenHash: append([]byte(nil), tokenHash...),
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id, nil
}

func (r *MemoryRepository) FindByAccount(ctx context.Context, accountID string) ([]*models.SessionRecord, error) {
	return r.find(ctx, func(s models.SessionRecord) bool { return s.AccountID == accountID })
}

func (r *MemoryRepository) FindAll(ctx context.Context) ([]*models.SessionRecord, error) {
	return r.find(ctx, func(models.SessionRecord) bool { return true })
}

func (r *MemoryRepository) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}

func (r *MemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.records {
		if !s.ExpiresAt.After(now) {
			delete(r.records, id)
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) find(ctx context.Context, match func(models.SessionRecord) bool) ([]*models.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.SessionRecord
	for _, s := range r.records {
		if match(s) {
			rec := s
			out = append(out, &rec)
		}
	}
	return out, nil
}
