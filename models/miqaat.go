// Package models — Miqaat (canlı yayın etkinliği) modelleri.
package models

import (
	"fmt"
	"strings"
	"time"
)

// MiqaatSourceType, yayının nereden geldiğini belirtir.
// Go'da enum yoktur — typed constant'lar kullanılır.
type MiqaatSourceType string

const (
	SourceTypeYoutube MiqaatSourceType = "youtube" // YoutubeID ile embed edilir
	SourceTypeIframe  MiqaatSourceType = "iframe"  // IframeCode olduğu gibi render edilir
	SourceTypeLiveKit MiqaatSourceType = "livekit" // LiveKit odası — viewer token gerekir
)

// Miqaat, bir canlı yayın etkinliğini temsil eder.
//
// AdminUsername: yayını yöneten kullanıcı. LiveKit kaynaklı
// miqaatlarda publish yetkisi SADECE bu kullanıcıya verilir,
// diğer herkes izleyicidir (subscribe-only).
type Miqaat struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	SourceType    MiqaatSourceType `json:"source_type"`
	YoutubeID     *string          `json:"youtube_id"`
	IframeCode    *string          `json:"iframe_code"`
	AdminUsername string           `json:"admin_username"`
	CreatedAt     time.Time        `json:"created_at"`
}

// IsActiveAt, miqaatın verilen anda aktif (izlenebilir) olup
// olmadığını döner. Aktif pencere [start, end + 24 saat) —
// bitiş gününün tamamı dahil edilir ki gün sonuna sarkan
// yayınlar erken kapanmasın.
func (m *Miqaat) IsActiveAt(t time.Time) bool {
	return !t.Before(m.StartDate) && t.Before(m.EndDate.Add(24*time.Hour))
}

// CreateMiqaatRequest, miqaat oluşturma/güncelleme isteği.
type CreateMiqaatRequest struct {
	Name          string    `json:"name"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	SourceType    string    `json:"source_type"`
	YoutubeID     string    `json:"youtube_id"`
	IframeCode    string    `json:"iframe_code"`
	AdminUsername string    `json:"admin_username"`
}

// Validate, CreateMiqaatRequest geçerlilik kontrolü.
func (r *CreateMiqaatRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}

	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return fmt.Errorf("start_date and end_date are required")
	}
	if r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("end_date cannot be before start_date")
	}

	switch MiqaatSourceType(r.SourceType) {
	case SourceTypeYoutube:
		if strings.TrimSpace(r.YoutubeID) == "" {
			return fmt.Errorf("youtube_id is required for youtube source")
		}
	case SourceTypeIframe:
		if strings.TrimSpace(r.IframeCode) == "" {
			return fmt.Errorf("iframe_code is required for iframe source")
		}
	case SourceTypeLiveKit:
		// LiveKit odası miqaat ID'sinden türetilir, ek alan gerekmez
	default:
		return fmt.Errorf("source_type must be one of: youtube, iframe, livekit")
	}

	r.AdminUsername = strings.TrimSpace(r.AdminUsername)
	if r.AdminUsername == "" {
		return fmt.Errorf("admin_username is required")
	}

	return nil
}

// RelayViewer, bir yayını o an izleyen kullanıcıyı temsil eder.
// Presence takibi memory'de tutulur — DB'ye yazılmaz.
type RelayViewer struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}
