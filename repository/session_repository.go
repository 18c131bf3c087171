package repository

import (
	"context"

	"github.com/anjuman/hub/models"
)

// SessionRepository, refresh token oturumlarının DB işlemleri.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error)
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID, kullanıcının TÜM oturumlarını siler —
	// şifre sıfırlandığında çalınmış olabilecek oturumlar da kapatılır.
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
