// Package models — Global uygulama ayarları.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Settings, tek satırlık global ayar kaydıdır (settings tablosunda id=1).
//
// UpdateLogoOn* bayrakları client'a LogoURL'in hangi ekranlarda
// varsayılan logonun yerine geçeceğini söyler. LogoURL boşken bu
// bayrakların anlamı yoktur — Normalize() hepsini false'a çeker,
// böylece client boş URL render etmeye çalışmaz.
type Settings struct {
	WebViewURL               string    `json:"web_view_url"`
	LogoURL                  string    `json:"logo_url"`
	UpdateLogoOnLogin        bool      `json:"update_logo_on_login"`
	UpdateLogoOnSidebar      bool      `json:"update_logo_on_sidebar"`
	UpdateLogoOnProfileAvatar bool     `json:"update_logo_on_profile_avatar"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// Normalize, ayarlar arası tutarlılığı zorlar.
// Kaydetmeden VE cache'e koymadan önce çağrılır.
func (s *Settings) Normalize() {
	s.WebViewURL = strings.TrimSpace(s.WebViewURL)
	s.LogoURL = strings.TrimSpace(s.LogoURL)

	if s.LogoURL == "" {
		s.UpdateLogoOnLogin = false
		s.UpdateLogoOnSidebar = false
		s.UpdateLogoOnProfileAvatar = false
	}
}

// DefaultSettings, DB'de henüz kayıt yokken dönen değerler.
func DefaultSettings() *Settings {
	return &Settings{}
}

// UpdateSettingsRequest, ayar güncelleme isteği (admin).
type UpdateSettingsRequest struct {
	WebViewURL               string `json:"web_view_url"`
	LogoURL                  string `json:"logo_url"`
	UpdateLogoOnLogin        bool   `json:"update_logo_on_login"`
	UpdateLogoOnSidebar      bool   `json:"update_logo_on_sidebar"`
	UpdateLogoOnProfileAvatar bool  `json:"update_logo_on_profile_avatar"`
}

// Validate, UpdateSettingsRequest geçerlilik kontrolü.
func (r *UpdateSettingsRequest) Validate() error {
	r.WebViewURL = strings.TrimSpace(r.WebViewURL)
	r.LogoURL = strings.TrimSpace(r.LogoURL)

	for _, u := range []string{r.WebViewURL, r.LogoURL} {
		if u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "/") {
			return fmt.Errorf("urls must be absolute or start with /")
		}
	}

	return nil
}
