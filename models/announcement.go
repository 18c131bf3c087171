// Package models — Duyuru (announcement) modelleri.
//
// Okunma takibi iki kaynaktan beslenir:
//   - Server kayıtları: announcement_reads tablosundaki satırlar
//   - Local kayıtlar: client'ın cihazında tuttuğu, henüz server'a
//     senkronize olmamış okuma işaretleri
//
// Bir duyuru, iki kümeden HERHANGİ birinde varsa "okunmuş" sayılır
// (birleşim kümesi). Bu sayede offline okunan duyurular da hemen
// okunmuş görünür, server'a yazma sonradan tamamlanır.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Duyuru yayın durumları.
const (
	AnnouncementStatusScheduled = "scheduled" // ileri tarihli, henüz yayında değil
	AnnouncementStatusSent      = "sent"      // yayında
)

// Announcement, bir topluluk duyurusunu temsil eder.
type Announcement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	AuthorID    string     `json:"author_id"`
	AuthorName  string     `json:"author_name"`
	ImageURL    *string    `json:"image_url"`
	Category    string     `json:"category"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Status      string     `json:"status"`
	ReadBy      []string   `json:"read_by_user_ids"` // server'da kayıtlı okuyucu ID'leri
	CreatedAt   time.Time  `json:"created_at"`
}

// IsReadBy, duyurunun verilen kullanıcı için okunmuş sayılıp
// sayılmayacağını döner. Server kayıtları ile client'ın local
// kümesinin birleşimine bakar — localRead nil olabilir.
func (a *Announcement) IsReadBy(userID string, localRead map[string]bool) bool {
	if localRead != nil && localRead[a.ID] {
		return true
	}
	for _, id := range a.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// AnnouncementWithRead, liste endpoint'inin döndüğü şekil —
// duyuruya ek olarak istek sahibi için hesaplanmış okunma bilgisi taşır.
type AnnouncementWithRead struct {
	Announcement
	IsRead bool `json:"is_read"`
}

// CreateAnnouncementRequest, duyuru oluşturma isteği.
// ScheduledAt verilirse ve gelecekteyse duyuru "scheduled" olarak
// kaydedilir, zamanı gelince scheduler tarafından yayınlanır.
type CreateAnnouncementRequest struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	ImageURL    string     `json:"image_url"`
	Category    string     `json:"category"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// Validate, CreateAnnouncementRequest geçerlilik kontrolü.
func (r *CreateAnnouncementRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(r.Title) > 200 {
		return fmt.Errorf("title must be at most 200 characters")
	}

	r.Content = strings.TrimSpace(r.Content)
	if r.Content == "" {
		return fmt.Errorf("content is required")
	}

	r.Category = strings.TrimSpace(r.Category)
	if r.Category == "" {
		r.Category = "general"
	}

	return nil
}

// MarkReadRequest, tek duyuru okundu işaretleme isteği.
// LocalReadIDs: client'ın cihazında işaretli ama server'a henüz
// yazılmamış duyuru ID'leri — response'taki birleşik duruma katılır.
type MarkReadRequest struct {
	LocalReadIDs []string `json:"local_read_ids"`
}

// LocalReadSet, LocalReadIDs listesini hızlı arama için map'e çevirir.
func (r *MarkReadRequest) LocalReadSet() map[string]bool {
	set := make(map[string]bool, len(r.LocalReadIDs))
	for _, id := range r.LocalReadIDs {
		set[id] = true
	}
	return set
}
