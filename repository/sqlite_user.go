package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/anjuman/hub/database"
	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
)

// sqliteUserRepo, UserRepository interface'inin SQLite implementasyonu.
//
// Go'da struct field'ları küçük harfle başlarsa (db) → private (package dışından erişilemez).
// Repository'nin DB bağlantısı dışarıya açık olmamalı — bu yüzden küçük harf.
type sqliteUserRepo struct {
	db database.TxQuerier
}

// NewSQLiteUserRepo, constructor fonksiyonu.
// UserRepository interface'i döner (concrete struct değil) — Dependency Inversion.
func NewSQLiteUserRepo(db database.TxQuerier) UserRepository {
	return &sqliteUserRepo{db: db}
}

const userColumns = `id, username, display_name, email, avatar_url, password_hash, is_platform_admin, is_restricted, created_at`

func (r *sqliteUserRepo) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.DisplayName, &user.Email, &user.AvatarURL,
		&user.PasswordHash, &user.IsPlatformAdmin, &user.IsRestricted, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, display_name, email, avatar_url, password_hash, is_platform_admin, is_restricted)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at`

	// QueryRowContext: tek bir satır dönen sorgu çalıştırır.
	// RETURNING ile DB'nin ürettiği id ve created_at geri okunur.
	err := r.db.QueryRowContext(ctx, query,
		user.Username,
		user.DisplayName,
		user.Email,
		user.AvatarURL,
		user.PasswordHash,
		user.IsPlatformAdmin,
		user.IsRestricted,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		// UNIQUE constraint violation → kullanıcı adı veya email zaten var
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "idx_users_email") {
				return fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
			}
			return fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, pkg.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, err
}

func (r *sqliteUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil && !errors.Is(err, pkg.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, err
}

// GetByEmail, email adresine göre kullanıcı arar — "şifremi unuttum" akışı.
func (r *sqliteUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil && !errors.Is(err, pkg.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, err
}

func (r *sqliteUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`

	// QueryContext: birden fazla satır dönen sorgu.
	// rows.Next() ile satır satır iterasyon yapılır.
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close() // Önemli: rows'u kapatmayı ASLA unutma — aksi halde bağlantı sızar (leak)

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.DisplayName, &u.Email, &u.AvatarURL,
			&u.PasswordHash, &u.IsPlatformAdmin, &u.IsRestricted, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

func (r *sqliteUserRepo) UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error {
	return r.updateOne(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, newPasswordHash, userID)
}

func (r *sqliteUserRepo) SetRestricted(ctx context.Context, userID string, restricted bool) error {
	return r.updateOne(ctx, `UPDATE users SET is_restricted = ? WHERE id = ?`, restricted, userID)
}

func (r *sqliteUserRepo) SetPlatformAdmin(ctx context.Context, userID string, isAdmin bool) error {
	return r.updateOne(ctx, `UPDATE users SET is_platform_admin = ? WHERE id = ?`, isAdmin, userID)
}

func (r *sqliteUserRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *sqliteUserRepo) Delete(ctx context.Context, id string) error {
	return r.updateOne(ctx, `DELETE FROM users WHERE id = ?`, id)
}

// updateOne, tek satır etkilemesi beklenen UPDATE/DELETE çalıştırır.
// RowsAffected 0 ise kayıt yok demektir → ErrNotFound.
func (r *sqliteUserRepo) updateOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute update: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

// isUniqueViolation, SQLite UNIQUE constraint hatasını kontrol eder.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
