package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"vjbot/internal/common"
	"vjbot/internal/domain/model"
)

type CredentialRepository interface {
	// Save overwrites any prior credential for the same (user, judge) pair
	// atomically.
	Save(ctx context.Context, cred *model.JudgeCredential) error
	// Get returns common.ErrNotFound for users who never linked.
	Get(ctx context.Context, userID, judge string) (*model.JudgeCredential, error)
	Delete(ctx context.Context, userID, judge string) error
}

type pgCredentialRepository struct {
	db *sql.DB
}

func NewPgCredentialRepository(db *sql.DB) CredentialRepository {
	return &pgCredentialRepository{db: db}
}

func (r *pgCredentialRepository) Save(ctx context.Context, cred *model.JudgeCredential) error {
	query := `INSERT INTO credentials (user_id, judge, username, secret, updated_at)
	          VALUES ($1, $2, $3, $4, NOW())
	          ON CONFLICT (user_id, judge)
	          DO UPDATE SET username = EXCLUDED.username, secret = EXCLUDED.secret, updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query, cred.UserID, cred.Judge, cred.Username, cred.Secret)
	if err != nil {
		return fmt.Errorf("pgCredentialRepository.Save: %w", err)
	}
	return nil
}

func (r *pgCredentialRepository) Get(ctx context.Context, userID, judge string) (*model.JudgeCredential, error) {
	query := `SELECT user_id, judge, username, secret, updated_at
	          FROM credentials WHERE user_id = $1 AND judge = $2`
	cred := &model.JudgeCredential{}
	err := r.db.QueryRowContext(ctx, query, userID, judge).Scan(
		&cred.UserID, &cred.Judge, &cred.Username, &cred.Secret, &cred.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCredentialRepository.Get: %w", err)
	}
	return cred, nil
}

func (r *pgCredentialRepository) Delete(ctx context.Context, userID, judge string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE user_id = $1 AND judge = $2`, userID, judge)
	if err != nil {
		return fmt.Errorf("pgCredentialRepository.Delete: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
