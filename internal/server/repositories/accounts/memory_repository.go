package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository is the in-process counterpart of PostgresRepository.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.Account
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]models.Account),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[account.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	now := time.Now()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.byID[account.ID] = *account
	r.byEmail[account.Email] = account.ID
	return account, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a := r.byID[id]
	return &a, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}
