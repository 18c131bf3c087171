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

type sqliteAnnouncementRepo struct {
	db database.TxQuerier
}

func NewSQLiteAnnouncementRepo(db database.TxQuerier) AnnouncementRepository {
	return &sqliteAnnouncementRepo{db: db}
}

const announcementColumns = `id, title, content, author_id, author_name, image_url, category, scheduled_at, status, created_at`

func (r *sqliteAnnouncementRepo) Create(ctx context.Context, a *models.Announcement) error {
	query := `
		INSERT INTO announcements (id, title, content, author_id, author_name, image_url, category, scheduled_at, status)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		a.Title,
		a.Content,
		a.AuthorID,
		a.AuthorName,
		a.ImageURL,
		a.Category,
		a.ScheduledAt,
		a.Status,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	return nil
}

func (r *sqliteAnnouncementRepo) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = ?`

	a := &models.Announcement{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Title, &a.Content, &a.AuthorID, &a.AuthorName,
		&a.ImageURL, &a.Category, &a.ScheduledAt, &a.Status, &a.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}

	if err := r.populateReadBy(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (r *sqliteAnnouncementRepo) GetAll(ctx context.Context, includeScheduled bool) ([]models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements`
	if !includeScheduled {
		query += ` WHERE status = 'sent'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get announcements: %w", err)
	}
	defer rows.Close()

	var announcements []models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Content, &a.AuthorID, &a.AuthorName,
			&a.ImageURL, &a.Category, &a.ScheduledAt, &a.Status, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan announcement row: %w", err)
		}
		announcements = append(announcements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating announcement rows: %w", err)
	}

	// Okuma kayıtlarını tek sorguda çekip duyurulara dağıt.
	// N+1 sorgu yerine: 1 duyuru sorgusu + 1 okuma sorgusu.
	readsByAnnouncement, err := r.allReads(ctx)
	if err != nil {
		return nil, err
	}
	for i := range announcements {
		announcements[i].ReadBy = readsByAnnouncement[announcements[i].ID]
	}

	return announcements, nil
}

// allReads, tüm okuma kayıtlarını announcement_id → []user_id map'ine yükler.
func (r *sqliteAnnouncementRepo) allReads(ctx context.Context) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT announcement_id, user_id FROM announcement_reads`)
	if err != nil {
		return nil, fmt.Errorf("failed to get announcement reads: %w", err)
	}
	defer rows.Close()

	reads := make(map[string][]string)
	for rows.Next() {
		var announcementID, userID string
		if err := rows.Scan(&announcementID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan read row: %w", err)
		}
		reads[announcementID] = append(reads[announcementID], userID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating read rows: %w", err)
	}

	return reads, nil
}

func (r *sqliteAnnouncementRepo) populateReadBy(ctx context.Context, a *models.Announcement) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM announcement_reads WHERE announcement_id = ?`, a.ID)
	if err != nil {
		return fmt.Errorf("failed to get announcement reads: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return fmt.Errorf("failed to scan read row: %w", err)
		}
		a.ReadBy = append(a.ReadBy, userID)
	}

	return rows.Err()
}

func (r *sqliteAnnouncementRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
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

func (r *sqliteAnnouncementRepo) MarkRead(ctx context.Context, announcementID, userID string) error {
	// INSERT OR IGNORE: composite PK çakışırsa sessizce atla.
	// Aynı duyuruyu iki kez okundu işaretlemek hata DEĞİLDİR.
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO announcement_reads (announcement_id, user_id) VALUES (?, ?)`,
		announcementID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark announcement read: %w", err)
	}
	return nil
}

func (r *sqliteAnnouncementRepo) Readers(ctx context.Context, announcementID string) ([]models.User, error) {
	query := `
		SELECT u.id, u.username, u.display_name, u.avatar_url
		FROM announcement_reads ar
		JOIN users u ON u.id = ar.user_id
		WHERE ar.announcement_id = ?
		ORDER BY ar.read_at DESC`

	rows, err := r.db.QueryContext(ctx, query, announcementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get readers: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan reader row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reader rows: %w", err)
	}

	return users, nil
}

func (r *sqliteAnnouncementRepo) ListUnreadIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT a.id FROM announcements a
		WHERE a.status = 'sent'
		AND NOT EXISTS (
			SELECT 1 FROM announcement_reads ar
			WHERE ar.announcement_id = a.id AND ar.user_id = ?
		)`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread announcements: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan unread row: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *sqliteAnnouncementRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM announcements a
		WHERE a.status = 'sent'
		AND NOT EXISTS (
			SELECT 1 FROM announcement_reads ar
			WHERE ar.announcement_id = a.id AND ar.user_id = ?
		)`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread announcements: %w", err)
	}
	return count, nil
}

func (r *sqliteAnnouncementRepo) ListDue(ctx context.Context) ([]models.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements
		WHERE status = 'scheduled' AND scheduled_at <= CURRENT_TIMESTAMP
		ORDER BY scheduled_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list due announcements: %w", err)
	}
	defer rows.Close()

	var announcements []models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Content, &a.AuthorID, &a.AuthorName,
			&a.ImageURL, &a.Category, &a.ScheduledAt, &a.Status, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan due announcement: %w", err)
		}
		announcements = append(announcements, a)
	}

	return announcements, rows.Err()
}

func (r *sqliteAnnouncementRepo) MarkSent(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE announcements SET status = 'sent' WHERE id = ? AND status = 'scheduled'`, id)
	if err != nil {
		return fmt.Errorf("failed to mark announcement sent: %w", err)
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
