package repository

import (
	"context"
	"time"

	"github.com/anjuman/hub/models"
)

// ResetTokenRepository, şifre sıfırlama token'larının DB işlemleri.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	// GetByHash, token'ın SHA256 hash'i ile kayıt arar.
	// Plaintext token DB'de hiç bulunmaz.
	GetByHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
	// LastRequestAt, kullanıcının en son token talebinin zamanını döner.
	// Spam koruması: cooldown süresi dolmadan yeni mail atılmaz.
	LastRequestAt(ctx context.Context, userID string) (*time.Time, error)
}
