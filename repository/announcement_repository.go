package repository

import (
	"context"

	"github.com/anjuman/hub/models"
)

// AnnouncementRepository, duyuru ve okunma kayıtlarının DB işlemleri.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	// GetAll, duyuruları yeni → eski sıralı döner.
	// includeScheduled=false ise sadece yayındaki (sent) duyurular döner —
	// normal üyeler zamanlanmış duyuruları görmemeli.
	GetAll(ctx context.Context, includeScheduled bool) ([]models.Announcement, error)
	Delete(ctx context.Context, id string) error

	// MarkRead, (announcement, user) okuma kaydı ekler.
	// INSERT OR IGNORE ile idempotent — ikinci çağrı hata vermez.
	MarkRead(ctx context.Context, announcementID, userID string) error
	// Readers, duyuruyu okuyan kullanıcıları okuma zamanıyla döner (admin görünümü).
	Readers(ctx context.Context, announcementID string) ([]models.User, error)
	// ListUnreadIDs, kullanıcının server kaydı OLMAYAN yayındaki duyuru ID'lerini döner.
	ListUnreadIDs(ctx context.Context, userID string) ([]string, error)
	// CountUnread, kullanıcının okumadığı yayındaki duyuru sayısını döner.
	CountUnread(ctx context.Context, userID string) (int, error)

	// ListDue, zamanı gelmiş scheduled duyuruları döner (scheduler için).
	ListDue(ctx context.Context) ([]models.Announcement, error)
	// MarkSent, duyuruyu scheduled → sent durumuna geçirir.
	MarkSent(ctx context.Context, id string) error
}
