// Package main — HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Middleware chain helper'ları burada tanımlıdır:
//   - auth: JWT token doğrulaması
//   - authUpload: auth + restricted kullanıcı engeli
//   - authAdmin: auth + platform admin yetkisi
package main

import (
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/anjuman/hub/middleware"
	"github.com/anjuman/hub/repository"
	"github.com/anjuman/hub/services"
	"github.com/anjuman/hub/static"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama kuralı: Literal path'ler parametrik path'lerden ÖNCE tanımlanmalı.
// Örnek: "/api/announcements/read-all" → "/api/announcements/{id}/read" öncesinde,
// yoksa Go router "read-all" kelimesini bir id olarak yorumlar.
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	authService services.AuthService,
	userRepo repository.UserRepository,
	uploadDir string,
) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(authService, userRepo)

	// ─── Middleware Chain Helpers ───
	auth := func(handler http.HandlerFunc) http.HandlerFunc {
		return authMw.Require(handler)
	}
	authUpload := func(handler http.HandlerFunc) http.HandlerFunc {
		return authMw.Require(middleware.BlockRestricted(handler))
	}
	authAdmin := func(handler http.HandlerFunc) http.HandlerFunc {
		return authMw.Require(middleware.RequirePlatformAdmin(handler))
	}

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"anjuman-hub"}`))
	})

	// Auth — public endpoint'ler (token gerekmez)
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", h.Auth.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", h.Auth.ResetPassword)

	// User
	mux.HandleFunc("GET /api/users/me", auth(h.Auth.Me))
	mux.HandleFunc("POST /api/users/me/password", auth(h.Auth.ChangePassword))

	// Announcements — okuma herkese, yönetim admin'e
	mux.HandleFunc("GET /api/announcements", auth(h.Announcement.List))
	mux.HandleFunc("GET /api/announcements/unread-count", auth(h.Announcement.UnreadCount))
	mux.HandleFunc("POST /api/announcements/read-all", auth(h.Announcement.MarkAllRead))
	mux.HandleFunc("POST /api/announcements/{id}/read", auth(h.Announcement.MarkRead))
	mux.HandleFunc("POST /api/announcements", authAdmin(h.Announcement.Create))
	mux.HandleFunc("DELETE /api/announcements/{id}", authAdmin(h.Announcement.Delete))
	mux.HandleFunc("GET /api/announcements/{id}/readers", authAdmin(h.Announcement.Readers))

	// Miqaats — aktif liste ve izleme herkese, CRUD admin'e
	mux.HandleFunc("GET /api/miqaats/active", auth(h.Miqaat.GetActive))
	mux.HandleFunc("POST /api/miqaats/{id}/viewer-token", auth(h.Miqaat.ViewerToken))
	mux.HandleFunc("GET /api/miqaats", authAdmin(h.Miqaat.GetAll))
	mux.HandleFunc("POST /api/miqaats", authAdmin(h.Miqaat.Create))
	mux.HandleFunc("PUT /api/miqaats/{id}", authAdmin(h.Miqaat.Update))
	mux.HandleFunc("DELETE /api/miqaats/{id}", authAdmin(h.Miqaat.Delete))
	mux.HandleFunc("GET /api/miqaats/{id}/viewers", authAdmin(h.Miqaat.Viewers))

	// Media — galeri herkese açık, yükleme restricted olmayanlar için
	mux.HandleFunc("GET /api/media", auth(h.Media.GetAll))
	mux.HandleFunc("POST /api/media", authUpload(h.Media.Upload))
	mux.HandleFunc("DELETE /api/media/{id}", auth(h.Media.Delete))
	mux.HandleFunc("POST /api/media/{id}/download", auth(h.Media.RegisterDownload))

	// Settings — okuma herkese, yazma admin'e
	mux.HandleFunc("GET /api/settings", auth(h.Settings.Get))
	mux.HandleFunc("PUT /api/settings", authAdmin(h.Settings.Save))

	// Platform Admin — üye yönetimi
	mux.HandleFunc("GET /api/admin/users", authAdmin(h.Admin.ListUsers))
	mux.HandleFunc("PATCH /api/admin/users/{id}/restrict", authAdmin(h.Admin.SetRestricted))
	mux.HandleFunc("PATCH /api/admin/users/{id}/admin", authAdmin(h.Admin.SetPlatformAdmin))
	mux.HandleFunc("DELETE /api/admin/users/{id}", authAdmin(h.Admin.DeleteUser))

	// Static file serving — yüklenen galeri dosyalarına erişim
	//
	// http.StripPrefix: URL'den "/api/uploads/" kısmını çıkarır.
	// http.FileServer: Kalan path'i upload dizininde dosya olarak arar.
	// Örnek: GET /api/uploads/abc123_photo.jpg → ./data/uploads/abc123_photo.jpg
	//
	// Path traversal koruması:
	// http.FileServer zaten ".." path'lerini reddeder.
	// Ek güvenlik için sadece dosya isimlerini kabul edip subdirectory'leri reddediyoruz.
	uploadsHandler := http.StripPrefix("/api/uploads/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/") || strings.Contains(r.URL.Path, "\\") {
			http.NotFound(w, r)
			return
		}
		http.FileServer(http.Dir(uploadDir)).ServeHTTP(w, r)
	}))
	mux.Handle("GET /api/uploads/", uploadsHandler)

	// WebSocket — token query parameter ile authenticate edilir
	//
	// Neden auth middleware kullanmıyoruz?
	// WebSocket upgrade sırasında tarayıcılar custom HTTP header gönderemez.
	// Bu yüzden JWT token URL query parameter olarak gönderilir:
	//   ws://server/ws?token=JWT_TOKEN
	// WS handler kendi içinde token doğrulaması yapar.
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)

	// SPA — gömülü frontend build'i servis edilir.
	// Bilinmeyen path'ler index.html'e düşer (client-side routing).
	registerSPA(mux)
}

// registerSPA, embed edilen frontend'i root path'e bağlar.
// dist/ boşsa (development) route yine kayıtlıdır ama 404 döner —
// bu modda frontend'i Vite dev server servis eder.
func registerSPA(mux *http.ServeMux) {
	distFS, err := fs.Sub(static.FrontendFS, "dist")
	if err != nil {
		log.Printf("[main] frontend assets unavailable: %v", err)
		return
	}

	fileServer := http.FileServer(http.FS(distFS))

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		// Dosya varsa doğrudan servis et, yoksa SPA fallback (index.html)
		if _, err := fs.Stat(distFS, path); err != nil {
			r.URL.Path = "/"
		}
		fileServer.ServeHTTP(w, r)
	})
}
