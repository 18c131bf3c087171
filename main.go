// Package main, anjuman-hub backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//   1. Config'i yükle
//   2. Database'i başlat (gömülü migration'larla)
//   3. Upload dizinini oluştur
//   4. Repository'leri oluştur (DB bağlantısı ile)
//   5. WebSocket Hub'ı başlat
//   6. Service'leri oluştur (repository'ler + hub ile)
//   7. Hub callback'lerini bağla (presence wire-up)
//   8. Handler'ları oluştur (service'ler ile)
//   9. HTTP router'ı kur, route'ları bağla
//  10. Scheduler'ı başlat (zamanlanmış duyurular)
//  11. CORS yapılandır
//  12. HTTP Server'ı başlat
//  13. Graceful shutdown
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anjuman/hub/config"
	"github.com/anjuman/hub/database"
	"github.com/anjuman/hub/scheduler"
	"github.com/anjuman/hub/ws"
	"github.com/rs/cors"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] anjuman-hub server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	// Migration'lar binary'ye gömülüdür — deploy edilen binary'nin yanında
	// SQL dosyası taşımaya gerek yok.
	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to access embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrationsFS)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Upload Dizini ───
	if err := os.MkdirAll(cfg.Upload.Dir, 0755); err != nil {
		log.Fatalf("[main] failed to create upload directory: %v", err)
	}

	// ─── 4. Repository Layer ───
	repos := initRepositories(db.Conn)

	// ─── 5. WebSocket Hub ───
	//
	// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır.
	// `go hub.Run()` ayrı bir goroutine'de event loop başlatır:
	// register/unregister channel'larını dinler ve client map'ini günceller.
	// Hub aynı zamanda EventPublisher interface'ini implement eder —
	// service'ler hub'a doğrudan bağımlı olmak yerine interface üzerinden erişir.
	hub := ws.NewHub()

	// ─── 6. Service Layer ───
	svcs, loginLimiter, geoResolver := initServices(db.Conn, repos, hub, cfg)

	// ─── 7. Hub Callback'leri ───
	// Callback'ler service'lerden SONRA, hub.Run()'dan ÖNCE bağlanmalı.
	registerHubCallbacks(hub, svcs.Presence)

	go hub.Run()

	// ─── 8. Handler Layer ───
	h := initHandlers(svcs, loginLimiter, geoResolver, hub, cfg)

	// ─── 9. HTTP Router ───
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Auth, repos.User, cfg.Upload.Dir)

	// ─── 10. Scheduler ───
	// Zamanı gelen scheduled duyuruları her dakika kontrol edip yayınlar.
	sched := scheduler.New(svcs.Announcement)
	if err := sched.Start(); err != nil {
		log.Fatalf("[main] failed to start scheduler: %v", err)
	}

	// ─── 11. CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000", // Vite dev server
			cfg.Email.AppURL,        // Production frontend URL
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		Debug:            false,
	})

	handler := corsHandler.Handler(mux)

	// ─── 12. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 13. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Sıralama önemli:
	// 1. Scheduler — yeni yayın turu başlamasın
	// 2. Presence — izleyici sayıları sıfırlansın (son broadcast'ler)
	// 3. Hub — WebSocket bağlantılarını kapat, client'lar "server shutting down" bilir
	// 4. HTTP server — yeni request kabul etmeyi durdur, mevcutları bekle
	sched.Stop()
	svcs.Presence.Shutdown()
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
