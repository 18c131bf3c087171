package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anjuman/hub/database"
	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"

	"github.com/google/uuid"
)

type sqliteMediaRepo struct {
	db database.TxQuerier
}

func NewSQLiteMediaRepo(db database.TxQuerier) MediaRepository {
	return &sqliteMediaRepo{db: db}
}

// mediaSelect, uploader adını tek sorguda getirmek için users ile join yapar.
// COALESCE: display_name NULL ise username kullan.
const mediaSelect = `
	SELECT m.id, m.title, m.filename, m.file_url, m.mime_type, m.file_size,
	       m.uploader_id, COALESCE(NULLIF(u.display_name, ''), u.username, 'unknown'),
	       m.download_count, m.created_at
	FROM media m
	LEFT JOIN users u ON u.id = m.uploader_id`

func (r *sqliteMediaRepo) Create(ctx context.Context, item *models.MediaItem) error {
	// Medya ID'leri UUID — dosya adlarında ve URL'lerde kullanıldığı
	// için tahmin edilemez olmaları tercih edilir.
	item.ID = uuid.NewString()

	query := `
		INSERT INTO media (id, title, filename, file_url, mime_type, file_size, uploader_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		item.ID,
		item.Title,
		item.Filename,
		item.FileURL,
		item.MimeType,
		item.FileSize,
		item.UploaderID,
	).Scan(&item.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create media item: %w", err)
	}

	return nil
}

func (r *sqliteMediaRepo) GetByID(ctx context.Context, id string) (*models.MediaItem, error) {
	item := &models.MediaItem{}
	err := r.db.QueryRowContext(ctx, mediaSelect+` WHERE m.id = ?`, id).Scan(
		&item.ID, &item.Title, &item.Filename, &item.FileURL, &item.MimeType,
		&item.FileSize, &item.UploaderID, &item.UploaderName, &item.DownloadCount, &item.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media item: %w", err)
	}

	return item, nil
}

func (r *sqliteMediaRepo) GetAll(ctx context.Context) ([]models.MediaItem, error) {
	rows, err := r.db.QueryContext(ctx, mediaSelect+` ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get media items: %w", err)
	}
	defer rows.Close()

	var items []models.MediaItem
	for rows.Next() {
		var item models.MediaItem
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Filename, &item.FileURL, &item.MimeType,
			&item.FileSize, &item.UploaderID, &item.UploaderName, &item.DownloadCount, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan media row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media rows: %w", err)
	}

	return items, nil
}

func (r *sqliteMediaRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media item: %w", err)
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

func (r *sqliteMediaRepo) IncrementDownload(ctx context.Context, id string) (int, error) {
	// Tek statement'ta artır ve yeni değeri oku — race condition yok.
	var count int
	err := r.db.QueryRowContext(ctx,
		`UPDATE media SET download_count = download_count + 1 WHERE id = ? RETURNING download_count`,
		id,
	).Scan(&count)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, pkg.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment download count: %w", err)
	}

	return count, nil
}
