package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anjuman/hub/database"
	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
)

type sqliteResetTokenRepo struct {
	db database.TxQuerier
}

func NewSQLiteResetTokenRepo(db database.TxQuerier) ResetTokenRepository {
	return &sqliteResetTokenRepo{db: db}
}

func (r *sqliteResetTokenRepo) Create(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	return nil
}

func (r *sqliteResetTokenRepo) GetByHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM password_reset_tokens WHERE token_hash = ?`

	token := &models.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID, &token.UserID, &token.TokenHash,
		&token.ExpiresAt, &token.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	return token, nil
}

func (r *sqliteResetTokenRepo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}

func (r *sqliteResetTokenRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete user reset tokens: %w", err)
	}
	return nil
}

func (r *sqliteResetTokenRepo) LastRequestAt(ctx context.Context, userID string) (*time.Time, error) {
	query := `
		SELECT created_at FROM password_reset_tokens
		WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`

	var t time.Time
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // hiç talep yok — cooldown uygulanmaz
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last reset request: %w", err)
	}

	return &t, nil
}
