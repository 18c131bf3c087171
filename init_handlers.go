// Package main — Handler katmanı başlatma.
//
// initHandlers, tüm HTTP handler'larını oluşturur.
// Her handler, ihtiyaç duyduğu service interface'lerini constructor'dan alır.
// Handler'lar "thin" dir — sadece HTTP parse + service call + response write.
package main

import (
	"github.com/anjuman/hub/config"
	"github.com/anjuman/hub/handlers"
	"github.com/anjuman/hub/pkg/geo"
	"github.com/anjuman/hub/pkg/ratelimit"
	"github.com/anjuman/hub/ws"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Announcement *handlers.AnnouncementHandler
	Miqaat       *handlers.MiqaatHandler
	Media        *handlers.MediaHandler
	Settings     *handlers.SettingsHandler
	Admin        *handlers.AdminHandler
	WS           *ws.Handler
}

// initHandlers, tüm handler'ları dependency'leri ile oluşturur.
func initHandlers(
	svcs *Services,
	loginLimiter *ratelimit.LoginRateLimiter,
	geoResolver *geo.Resolver,
	hub *ws.Hub,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Auth:         handlers.NewAuthHandler(svcs.Auth, loginLimiter, geoResolver),
		Announcement: handlers.NewAnnouncementHandler(svcs.Announcement),
		Miqaat:       handlers.NewMiqaatHandler(svcs.Miqaat, svcs.Presence),
		Media:        handlers.NewMediaHandler(svcs.Media, cfg.Upload.MaxSize),
		Settings:     handlers.NewSettingsHandler(svcs.Settings),
		Admin:        handlers.NewAdminHandler(svcs.UserAdmin),
		WS:           ws.NewHandler(hub, svcs.Auth),
	}
}
