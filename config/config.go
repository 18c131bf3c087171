// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Config struct'ı tüm ayarları tek bir yerde toplar — her yerde ayrı ayrı
// os.Getenv() çağırmak yerine tek bir Config nesnesi taşırız.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her struct tek bir concern'ü temsil eder.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	LiveKit  LiveKitConfig
	Upload   UploadConfig
	Email    EmailConfig
	Geo      GeoConfig
	Settings SettingsConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/anjuman.db)
}

// JWTConfig, JWT token ayarları.
type JWTConfig struct {
	Secret             string // Token imzalama anahtarı — GİZLİ TUTULMALI
	AccessTokenExpiry  int    // Dakika cinsinden (varsayılan: 15)
	RefreshTokenExpiry int    // Gün cinsinden (varsayılan: 7)
}

// LiveKitConfig, self-hosted canlı yayın (relay) SFU ayarları.
// Sadece source_type = "livekit" olan miqaat'ler için kullanılır —
// YouTube/iframe yayınlarında sunucu token üretmez.
type LiveKitConfig struct {
	URL       string // LiveKit server URL (ör: ws://localhost:7880)
	APIKey    string
	APISecret string
}

// UploadConfig, medya galerisi dosya yükleme ayarları.
type UploadConfig struct {
	Dir     string // Dosyaların kaydedileceği dizin
	MaxSize int64  // Byte cinsinden max dosya boyutu (varsayılan: 25MB)
}

// EmailConfig, şifre sıfırlama email'i (Resend) ayarları.
// APIKey boşsa email gönderimi devre dışı kalır — forgot-password
// yine success döner ama mail çıkmaz (development kolaylığı).
type EmailConfig struct {
	ResendAPIKey string
	FromEmail    string // Resend'de doğrulanmış domain altında olmalı
	AppURL       string // Reset linklerinde kullanılan public URL
}

// GeoConfig, login IP geolocation servisi ayarları.
type GeoConfig struct {
	APIURL string // ip-api uyumlu endpoint (ör: http://ip-api.com/json)
}

// SettingsConfig, uygulama ayarları cache'inin davranışı.
type SettingsConfig struct {
	CacheTTLMinutes int // Settings cache yaşam süresi (varsayılan: 5)
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// .env dosyası yoksa hata vermez, sessizce devam eder.
	// Production'da bu dosya olmaz, gerçek env variable'lar kullanılır.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	accessExpiry, err := strconv.Atoi(getEnv("JWT_ACCESS_EXPIRY_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRY_MINUTES: %w", err)
	}

	refreshExpiry, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRY_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRY_DAYS: %w", err)
	}

	maxSize, err := strconv.ParseInt(getEnv("UPLOAD_MAX_SIZE", "26214400"), 10, 64) // 25MB
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_SIZE: %w", err)
	}

	settingsTTL, err := strconv.Atoi(getEnv("SETTINGS_CACHE_TTL_MINUTES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid SETTINGS_CACHE_TTL_MINUTES: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/anjuman.db"),
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		LiveKit: LiveKitConfig{
			URL:       getEnv("LIVEKIT_URL", "ws://localhost:7880"),
			APIKey:    getEnv("LIVEKIT_API_KEY", ""),
			APISecret: getEnv("LIVEKIT_API_SECRET", ""),
		},
		Upload: UploadConfig{
			Dir:     getEnv("UPLOAD_DIR", "./data/uploads"),
			MaxSize: maxSize,
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromEmail:    getEnv("EMAIL_FROM", "noreply@anjumanhub.app"),
			AppURL:       getEnv("APP_URL", "http://localhost:3000"),
		},
		Geo: GeoConfig{
			APIURL: getEnv("GEO_API_URL", "http://ip-api.com/json"),
		},
		Settings: SettingsConfig{
			CacheTTLMinutes: settingsTTL,
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
