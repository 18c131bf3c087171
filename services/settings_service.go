// Package services — Global ayarlar servisi.
//
// Ayarlar her sayfa yüklemesinde okunur ama nadiren değişir —
// tek slotluk TTL cache (cache.Single) ile DB'ye gidiş azaltılır.
// Save sonrası cache invalidate edilir ve settings_update broadcast'i
// tüm bağlı client'lara gider.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/pkg/cache"
	"github.com/anjuman/hub/repository"
	"github.com/anjuman/hub/ws"
)

// SettingsService interface'i.
type SettingsService interface {
	// Get, ayarları döner — TTL içindeyse cache'ten, değilse DB'den.
	// force=true cache'i atlar (admin panelinde "yenile").
	Get(ctx context.Context, force bool) (*models.Settings, error)
	// Save, ayarları normalize edip kaydeder, cache'i düşürür ve broadcast eder.
	Save(ctx context.Context, req *models.UpdateSettingsRequest) (*models.Settings, error)
	// Invalidate, cache'i elle düşürür.
	Invalidate()
}

type settingsService struct {
	repo  repository.SettingsRepository
	hub   ws.EventPublisher
	cache *cache.Single[*models.Settings]
}

// NewSettingsService, constructor.
func NewSettingsService(
	repo repository.SettingsRepository,
	hub ws.EventPublisher,
	cacheTTL time.Duration,
) SettingsService {
	s := &settingsService{repo: repo, hub: hub}

	// Fetch fonksiyonu: DB'de kayıt yoksa varsayılanlar döner — ErrNotFound
	// cache'e hata olarak GEÇMEZ, boş ayarlar normal durumdur.
	s.cache = cache.NewSingle(func(ctx context.Context) (*models.Settings, error) {
		settings, err := repo.Get(ctx)
		if err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				return models.DefaultSettings(), nil
			}
			return nil, err
		}
		settings.Normalize()
		return settings, nil
	}, cacheTTL)

	return s
}

func (s *settingsService) Get(ctx context.Context, force bool) (*models.Settings, error) {
	return s.cache.Get(ctx, force)
}

func (s *settingsService) Save(ctx context.Context, req *models.UpdateSettingsRequest) (*models.Settings, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	settings := &models.Settings{
		WebViewURL:                req.WebViewURL,
		LogoURL:                   req.LogoURL,
		UpdateLogoOnLogin:         req.UpdateLogoOnLogin,
		UpdateLogoOnSidebar:       req.UpdateLogoOnSidebar,
		UpdateLogoOnProfileAvatar: req.UpdateLogoOnProfileAvatar,
	}
	// Logo boşsa bayraklar temizlenir — client boş URL render etmez.
	settings.Normalize()

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}

	// Önce invalidate, sonra broadcast: event'i alan client GET attığında
	// taze değeri görmeli, bayat cache'i değil.
	s.cache.Invalidate()

	s.hub.BroadcastToAll(ws.Event{Op: ws.OpSettingsUpdate, Data: settings})
	return settings, nil
}

func (s *settingsService) Invalidate() {
	s.cache.Invalidate()
}
