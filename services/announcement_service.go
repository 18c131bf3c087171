// Package services — Duyuru servisi.
//
// Okuma durumu iki kaynağın BİRLEŞİMİDİR: server'daki announcement_reads
// kayıtları ve client'ın gönderdiği local (henüz senkronize olmamış) küme.
// MarkRead optimistic çalışır — server yazması başarısız olsa bile client'a
// hata dönülmez; local kayıt zaten var, bir sonraki senkronda tekrar denenir.
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/repository"
	"github.com/anjuman/hub/ws"
)

// AnnouncementService interface'i.
type AnnouncementService interface {
	// Create, yeni duyuru oluşturur (admin). ScheduledAt gelecekteyse
	// duyuru "scheduled" kaydedilir ve broadcast ERTELENİR — zamanı
	// gelince PublishDue yayınlar.
	Create(ctx context.Context, authorID string, req *models.CreateAnnouncementRequest) (*models.Announcement, error)
	Delete(ctx context.Context, id string) error
	// List, duyuruları istek sahibi için hesaplanmış okunma durumuyla döner.
	// isAdmin=false ise scheduled duyurular gizlenir.
	List(ctx context.Context, userID string, isAdmin bool, localRead map[string]bool) ([]models.AnnouncementWithRead, error)
	// MarkRead, tek duyuruyu okundu işaretler ve BİRLEŞİK okunma kümesini döner.
	// Server yazması başarısız olsa bile local işaret geri ALINMAZ.
	MarkRead(ctx context.Context, announcementID, userID string, localRead map[string]bool) (map[string]bool, error)
	// MarkAllRead, okunmamış tüm duyuruları işaretler; başarılı yazma sayısını döner.
	// Kayıtlardan biri başarısız olsa diğerleri etkilenmez.
	MarkAllRead(ctx context.Context, userID string) (int, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	// Readers, duyuruyu okuyan kullanıcı listesini döner (admin görünümü).
	Readers(ctx context.Context, announcementID string) ([]models.User, error)
	// PublishDue, zamanı gelmiş scheduled duyuruları yayınlar (scheduler çağırır).
	PublishDue(ctx context.Context) (int, error)
}

type announcementService struct {
	repo     repository.AnnouncementRepository
	userRepo repository.UserRepository
	hub      ws.EventPublisher
}

// NewAnnouncementService, constructor.
func NewAnnouncementService(
	repo repository.AnnouncementRepository,
	userRepo repository.UserRepository,
	hub ws.EventPublisher,
) AnnouncementService {
	return &announcementService{repo: repo, userRepo: userRepo, hub: hub}
}

func (s *announcementService) Create(ctx context.Context, authorID string, req *models.CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	var imageURL *string
	if req.ImageURL != "" {
		imageURL = &req.ImageURL
	}

	announcement := &models.Announcement{
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   author.ID,
		AuthorName: author.Name(),
		ImageURL:   imageURL,
		Category:   req.Category,
		Status:     models.AnnouncementStatusSent,
	}

	// Gelecek tarihli ise scheduled olarak kaydet
	if req.ScheduledAt != nil && req.ScheduledAt.After(time.Now()) {
		announcement.ScheduledAt = req.ScheduledAt
		announcement.Status = models.AnnouncementStatusScheduled
	}

	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, err
	}

	// Sadece hemen yayınlananlar broadcast edilir — scheduled duyurular
	// zamanı gelince PublishDue tarafından duyurulur.
	if announcement.Status == models.AnnouncementStatusSent {
		s.hub.BroadcastToAll(ws.Event{Op: ws.OpAnnouncementCreate, Data: announcement})
	}

	return announcement, nil
}

func (s *announcementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.hub.BroadcastToAll(ws.Event{Op: ws.OpAnnouncementDelete, Data: ws.DeletedData{ID: id}})
	return nil
}

func (s *announcementService) List(ctx context.Context, userID string, isAdmin bool, localRead map[string]bool) ([]models.AnnouncementWithRead, error) {
	announcements, err := s.repo.GetAll(ctx, isAdmin)
	if err != nil {
		return nil, err
	}

	result := make([]models.AnnouncementWithRead, 0, len(announcements))
	for _, a := range announcements {
		result = append(result, models.AnnouncementWithRead{
			Announcement: a,
			IsRead:       a.IsReadBy(userID, localRead),
		})
	}

	return result, nil
}

func (s *announcementService) MarkRead(ctx context.Context, announcementID, userID string, localRead map[string]bool) (map[string]bool, error) {
	if _, err := s.repo.GetByID(ctx, announcementID); err != nil {
		return nil, err // ErrNotFound
	}

	// Optimistic: server yazması başarısız olsa bile client'a hata dönmeyiz.
	// Local küme işareti zaten taşıyor — client'ta duyuru okunmuş görünmeye
	// devam eder, server kaydı bir sonraki denemede oluşur.
	if err := s.repo.MarkRead(ctx, announcementID, userID); err != nil {
		log.Printf("[announcement] mark read failed (will retry on next sync): %v", err)
	}

	// Birleşik küme: local + bu işaret + server'daki okunmamışların tersi.
	merged := make(map[string]bool, len(localRead)+1)
	for id := range localRead {
		merged[id] = true
	}
	merged[announcementID] = true

	unreadIDs, err := s.repo.ListUnreadIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread := make(map[string]bool, len(unreadIDs))
	for _, id := range unreadIDs {
		unread[id] = true
	}

	// Server'da okunmuş olup local'de olmayanları da kümeye ekle
	announcements, err := s.repo.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, a := range announcements {
		if !unread[a.ID] {
			merged[a.ID] = true
		}
	}

	return merged, nil
}

func (s *announcementService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	unreadIDs, err := s.repo.ListUnreadIDs(ctx, userID)
	if err != nil {
		return 0, err
	}

	if len(unreadIDs) == 0 {
		return 0, nil
	}

	// Her kayıt bağımsız goroutine'de işaretlenir — biri başarısız olsa
	// diğerleri tamamlanır. atomic sayaç ile başarılı yazmalar sayılır.
	var succeeded atomic.Int64
	var wg sync.WaitGroup

	for _, id := range unreadIDs {
		wg.Add(1)
		go func(announcementID string) {
			defer wg.Done()
			if err := s.repo.MarkRead(ctx, announcementID, userID); err != nil {
				log.Printf("[announcement] mark all read: %s failed: %v", announcementID, err)
				return
			}
			succeeded.Add(1)
		}(id)
	}

	wg.Wait()
	return int(succeeded.Load()), nil
}

func (s *announcementService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *announcementService) Readers(ctx context.Context, announcementID string) ([]models.User, error) {
	if _, err := s.repo.GetByID(ctx, announcementID); err != nil {
		return nil, err
	}
	return s.repo.Readers(ctx, announcementID)
}

// PublishDue, scheduled_at'i geçmiş duyuruları sent'e çevirip broadcast eder.
// Scheduler her dakika çağırır. Yayınlanan duyuru sayısını döner.
func (s *announcementService) PublishDue(ctx context.Context) (int, error) {
	due, err := s.repo.ListDue(ctx)
	if err != nil {
		return 0, err
	}

	published := 0
	for i := range due {
		a := &due[i]
		if err := s.repo.MarkSent(ctx, a.ID); err != nil {
			// Başka bir instance önce davranmış olabilir — atla, durma.
			if errors.Is(err, pkg.ErrNotFound) {
				continue
			}
			log.Printf("[announcement] failed to publish %s: %v", a.ID, err)
			continue
		}

		a.Status = models.AnnouncementStatusSent
		s.hub.BroadcastToAll(ws.Event{Op: ws.OpAnnouncementCreate, Data: a})
		published++
	}

	return published, nil
}
