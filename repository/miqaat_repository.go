package repository

import (
	"context"

	"github.com/anjuman/hub/models"
)

// MiqaatRepository, miqaat (canlı yayın etkinliği) DB işlemleri.
type MiqaatRepository interface {
	Create(ctx context.Context, miqaat *models.Miqaat) error
	GetByID(ctx context.Context, id string) (*models.Miqaat, error)
	// GetAll, tüm miqaatları başlangıç tarihine göre yeni → eski döner.
	GetAll(ctx context.Context) ([]models.Miqaat, error)
	Update(ctx context.Context, miqaat *models.Miqaat) error
	Delete(ctx context.Context, id string) error
}
