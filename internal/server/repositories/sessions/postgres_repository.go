package sessions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, accountID string, tokenHash []byte, expiresAt time.Time) (string, error) {
	query := `
		INSERT INTO sessions (id, account_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, query, id, accountID, tokenHash, expiresAt); err != nil {
		return "", fmt.Errorf("error performing sql request: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) FindByAccount(ctx context.Context, accountID string) ([]*models.SessionRecord, error) {
	query := `
		SELECT id, account_id, token_hash, expires_at, created_at, updated_at
		FROM sessions
		WHERE account_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanSessions(rows)
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.SessionRecord, error) {
	query := `
		SELECT id, account_id, token_hash, expires_at, created_at, updated_at
		FROM sessions
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanSessions(rows)
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	query := `
		DELETE FROM sessions
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE expires_at <= $1
	`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func scanSessions(rows *sql.Rows) ([]*models.SessionRecord, error) {
	defer rows.Close()

	var out []*models.SessionRecord
	for rows.Next() {
		s := &models.SessionRecord{}
		if err := rows.Scan(&s.ID, &s.AccountID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
