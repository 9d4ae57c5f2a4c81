package accounts

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository persists accounts.
//
// Create returns common.ErrorAlreadyExists when the email is taken; the
// lookups return common.ErrorNotFound when nothing matches.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
}
