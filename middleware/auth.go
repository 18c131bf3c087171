// Package middleware, HTTP request'lerini handler'a ulaşmadan önce işleyen
// ara katmanları içerir.
//
// Middleware pattern: http.Handler alıp http.Handler döndüren fonksiyonlar.
// Zincirleme kullanılır: auth → admin → handler gibi.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anjuman/hub/handlers"
	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/repository"
	"github.com/anjuman/hub/services"
)

// AuthMiddleware, JWT doğrulaması yapan middleware.
type AuthMiddleware struct {
	authService services.AuthService
	userRepo    repository.UserRepository
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(authService services.AuthService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{authService: authService, userRepo: userRepo}
}

// Require, korumalı endpoint'ler için auth kontrolü yapar.
//
// Akış:
// 1. Authorization header'dan Bearer token'ı al
// 2. Token'ı doğrula (imza + süre)
// 3. Kullanıcıyı DB'den yükle — token geçerli olsa bile kullanıcı
//    silinmiş olabilir, güncel yetkiler (admin, restricted) DB'den gelir
// 4. User'ı context'e koy, sonraki handler'a geç
func (m *AuthMiddleware) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		// "Bearer <token>" formatı beklenir
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := m.authService.ValidateAccessToken(parts[1])
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := m.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user no longer exists")
			return
		}
		user.PasswordHash = ""

		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// userFromContext, middleware zincirinde context'teki kullanıcıyı okur.
func userFromContext(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(handlers.UserContextKey).(*models.User)
	return user, ok
}
