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

type sqliteMiqaatRepo struct {
	db database.TxQuerier
}

func NewSQLiteMiqaatRepo(db database.TxQuerier) MiqaatRepository {
	return &sqliteMiqaatRepo{db: db}
}

const miqaatColumns = `id, name, start_date, end_date, source_type, youtube_id, iframe_code, admin_username, created_at`

func (r *sqliteMiqaatRepo) Create(ctx context.Context, m *models.Miqaat) error {
	query := `
		INSERT INTO miqaats (id, name, start_date, end_date, source_type, youtube_id, iframe_code, admin_username)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.SourceType,
		m.YoutubeID,
		m.IframeCode,
		m.AdminUsername,
	).Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create miqaat: %w", err)
	}

	return nil
}

func (r *sqliteMiqaatRepo) GetByID(ctx context.Context, id string) (*models.Miqaat, error) {
	query := `SELECT ` + miqaatColumns + ` FROM miqaats WHERE id = ?`

	m := &models.Miqaat{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.StartDate, &m.EndDate, &m.SourceType,
		&m.YoutubeID, &m.IframeCode, &m.AdminUsername, &m.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get miqaat: %w", err)
	}

	return m, nil
}

func (r *sqliteMiqaatRepo) GetAll(ctx context.Context) ([]models.Miqaat, error) {
	query := `SELECT ` + miqaatColumns + ` FROM miqaats ORDER BY start_date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get miqaats: %w", err)
	}
	defer rows.Close()

	var miqaats []models.Miqaat
	for rows.Next() {
		var m models.Miqaat
		if err := rows.Scan(
			&m.ID, &m.Name, &m.StartDate, &m.EndDate, &m.SourceType,
			&m.YoutubeID, &m.IframeCode, &m.AdminUsername, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan miqaat row: %w", err)
		}
		miqaats = append(miqaats, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating miqaat rows: %w", err)
	}

	return miqaats, nil
}

func (r *sqliteMiqaatRepo) Update(ctx context.Context, m *models.Miqaat) error {
	query := `
		UPDATE miqaats
		SET name = ?, start_date = ?, end_date = ?, source_type = ?, youtube_id = ?, iframe_code = ?, admin_username = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		m.Name, m.StartDate, m.EndDate, m.SourceType,
		m.YoutubeID, m.IframeCode, m.AdminUsername, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update miqaat: %w", err)
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

func (r *sqliteMiqaatRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM miqaats WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete miqaat: %w", err)
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
