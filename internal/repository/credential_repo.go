package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chessbook-sync/internal/model"
)

// CredentialRepository persists one record per account email. Emails are
// compared exactly as stored; lookups are case-sensitive.
type CredentialRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialRepository(pool *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

func (r *CredentialRepository) Get(ctx context.Context, email string) (model.Credential, error) {
	var c model.Credential
	err := r.pool.QueryRow(ctx,
		`SELECT email, password_hash, created_at FROM credentials WHERE email = $1`, email).
		Scan(&c.Email, &c.PasswordHash, &c.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Credential{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.Credential{}, fmt.Errorf("get credential: %w", err)
	}
	return c, nil
}

// Create inserts the record only if no record for the email exists yet.
// Concurrent creates for the same email race inside the database: exactly
// one insert wins, the rest observe ErrUserAlreadyExists.
func (r *CredentialRepository) Create(ctx context.Context, c model.Credential) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO credentials (email, password_hash, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO NOTHING`,
		c.Email, c.PasswordHash, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserAlreadyExists
	}
	return nil
}

func (r *CredentialRepository) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM credentials WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check credential exists: %w", err)
	}
	return exists, nil
}
