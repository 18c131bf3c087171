// Package main — Service katmanı başlatma.
//
// initServices, tüm service implementasyonlarını oluşturur.
// Her service, ihtiyaç duyduğu repository interface'lerini ve diğer
// dependency'leri constructor injection ile alır.
package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/anjuman/hub/config"
	"github.com/anjuman/hub/pkg/email"
	"github.com/anjuman/hub/pkg/geo"
	"github.com/anjuman/hub/pkg/ratelimit"
	"github.com/anjuman/hub/services"
	"github.com/anjuman/hub/ws"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth         services.AuthService
	Announcement services.AnnouncementService
	Miqaat       services.MiqaatService
	Presence     services.PresenceService
	Media        services.MediaService
	Settings     services.SettingsService
	UserAdmin    services.UserAdminService
}

// initServices, tüm service'leri, login rate limiter'ı ve geo resolver'ı oluşturur.
//
// conn, auth service'e doğrudan geçer — şifre sıfırlama yazmaları
// WithTx ile tek transaction'da çalışır.
//
// hub, service'ler arası paylaşılan EventPublisher dependency'sidir —
// service'ler concrete Hub'a değil interface'e bağımlıdır.
func initServices(conn *sql.DB, repos *Repositories, hub ws.EventPublisher, cfg *config.Config) (*Services, *ratelimit.LoginRateLimiter, *geo.Resolver) {
	// ─── Email service (opsiyonel) ───
	var emailSender email.EmailSender
	if cfg.Email.ResendAPIKey != "" && cfg.Email.FromEmail != "" && cfg.Email.AppURL != "" {
		emailSender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.AppURL)
		log.Printf("[main] email service enabled (from=%s)", cfg.Email.FromEmail)
	} else {
		log.Println("[main] email service disabled (RESEND_API_KEY, EMAIL_FROM or APP_URL not set)")
	}

	authService := services.NewAuthService(
		conn, repos.User, repos.Session, repos.ResetToken, emailSender,
		cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry,
	)

	announcementService := services.NewAnnouncementService(repos.Announcement, repos.User, hub)
	miqaatService := services.NewMiqaatService(repos.Miqaat, hub, cfg.LiveKit)
	presenceService := services.NewPresenceService(hub)
	mediaService := services.NewMediaService(repos.Media, hub, cfg.Upload.Dir, cfg.Upload.MaxSize)
	settingsService := services.NewSettingsService(
		repos.Settings, hub,
		time.Duration(cfg.Settings.CacheTTLMinutes)*time.Minute,
	)
	userAdminService := services.NewUserAdminService(repos.User)

	// ─── Login brute-force koruması ───
	loginLimiter := ratelimit.NewLoginRateLimiter(5, 2*time.Minute)

	// ─── Login IP geolocation (best-effort log) ───
	geoResolver := geo.NewResolver(cfg.Geo.APIURL)

	svcs := &Services{
		Auth:         authService,
		Announcement: announcementService,
		Miqaat:       miqaatService,
		Presence:     presenceService,
		Media:        mediaService,
		Settings:     settingsService,
		UserAdmin:    userAdminService,
	}

	return svcs, loginLimiter, geoResolver
}
