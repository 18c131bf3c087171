package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anjuman/hub/database"
	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
)

type sqliteSettingsRepo struct {
	db database.TxQuerier
}

func NewSQLiteSettingsRepo(db database.TxQuerier) SettingsRepository {
	return &sqliteSettingsRepo{db: db}
}

func (r *sqliteSettingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	query := `
		SELECT web_view_url, logo_url, update_logo_on_login, update_logo_on_sidebar,
		       update_logo_on_profile_avatar, updated_at
		FROM settings WHERE id = 1`

	s := &models.Settings{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.WebViewURL, &s.LogoURL, &s.UpdateLogoOnLogin, &s.UpdateLogoOnSidebar,
		&s.UpdateLogoOnProfileAvatar, &s.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return s, nil
}

func (r *sqliteSettingsRepo) Save(ctx context.Context, s *models.Settings) error {
	// UPSERT: id=1 satırı yoksa INSERT, varsa UPDATE.
	// SQLite'ın ON CONFLICT DO UPDATE syntax'ı (3.24+).
	query := `
		INSERT INTO settings (id, web_view_url, logo_url, update_logo_on_login,
		                      update_logo_on_sidebar, update_logo_on_profile_avatar, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			web_view_url = excluded.web_view_url,
			logo_url = excluded.logo_url,
			update_logo_on_login = excluded.update_logo_on_login,
			update_logo_on_sidebar = excluded.update_logo_on_sidebar,
			update_logo_on_profile_avatar = excluded.update_logo_on_profile_avatar,
			updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		s.WebViewURL,
		s.LogoURL,
		s.UpdateLogoOnLogin,
		s.UpdateLogoOnSidebar,
		s.UpdateLogoOnProfileAvatar,
	).Scan(&s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}
