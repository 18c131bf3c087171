// Package main — Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository aynı *sql.DB bağlantısını alır ve interface döner.
// main.go'daki wire-up'ı modülerleştirmek için bu dosyaya taşındı.
package main

import (
	"database/sql"

	"github.com/anjuman/hub/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
//
// Neden struct? Ayrı ayrı değişkenler yerine tek struct kullanmak:
// 1. Fonksiyon imzalarını temiz tutar
// 2. Yeni repository eklendiğinde sadece struct + initRepositories güncellenir
// 3. IDE auto-complete ile kolay erişim (repos.User, repos.Miqaat, vb.)
type Repositories struct {
	User         repository.UserRepository
	Session      repository.SessionRepository
	ResetToken   repository.ResetTokenRepository
	Announcement repository.AnnouncementRepository
	Miqaat       repository.MiqaatRepository
	Media        repository.MediaRepository
	Settings     repository.SettingsRepository
}

// initRepositories, veritabanı bağlantısından tüm repository'leri oluşturur.
//
// Her NewSQLite* fonksiyonu aynı *sql.DB'yi alır — Go'nun sql.DB'si
// thread-safe connection pool'dur, paylaşılması güvenlidir.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		User:         repository.NewSQLiteUserRepo(conn),
		Session:      repository.NewSQLiteSessionRepo(conn),
		ResetToken:   repository.NewSQLiteResetTokenRepo(conn),
		Announcement: repository.NewSQLiteAnnouncementRepo(conn),
		Miqaat:       repository.NewSQLiteMiqaatRepo(conn),
		Media:        repository.NewSQLiteMediaRepo(conn),
		Settings:     repository.NewSQLiteSettingsRepo(conn),
	}
}
