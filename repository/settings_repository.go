package repository

import (
	"context"

	"github.com/anjuman/hub/models"
)

// SettingsRepository, tek satırlık global ayar kaydının DB işlemleri.
type SettingsRepository interface {
	// Get, ayar kaydını döner. Henüz kayıt yoksa pkg.ErrNotFound döner —
	// varsayılanlara çevirmek service katmanının işi.
	Get(ctx context.Context) (*models.Settings, error)
	// Save, ayarları kaydeder (upsert — kayıt yoksa oluşturur).
	Save(ctx context.Context, settings *models.Settings) error
}
