package repository

import (
	"context"

	"github.com/anjuman/hub/models"
)

// MediaRepository, medya galerisi DB işlemleri.
type MediaRepository interface {
	Create(ctx context.Context, item *models.MediaItem) error
	GetByID(ctx context.Context, id string) (*models.MediaItem, error)
	GetAll(ctx context.Context) ([]models.MediaItem, error)
	Delete(ctx context.Context, id string) error
	// IncrementDownload, indirme sayacını atomik olarak 1 artırır.
	// Read-modify-write yerine tek UPDATE — eşzamanlı indirmelerde sayı kaybolmaz.
	IncrementDownload(ctx context.Context, id string) (int, error)
}
