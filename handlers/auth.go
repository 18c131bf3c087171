// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'ın görevi çok basit ve "ince" (thin) olmalı:
// 1. Request body'yi parse et (JSON → struct)
// 2. Service katmanını çağır
// 3. Sonucu HTTP response olarak döndür
//
// Handler ASLA iş mantığı (business logic) içermez.
// Handler ASLA doğrudan DB'ye erişmez.
// Tüm akıl service'de, handler sadece köprü.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/pkg/geo"
	"github.com/anjuman/hub/pkg/ratelimit"
	"github.com/anjuman/hub/services"
)

// AuthHandler, auth endpoint'lerini yöneten struct.
// Service interface'i ve rate limiter constructor'dan alınır (DI).
type AuthHandler struct {
	authService  services.AuthService
	loginLimiter *ratelimit.LoginRateLimiter
	geoResolver  *geo.Resolver
}

// NewAuthHandler, constructor.
// loginLimiter: Login brute-force koruması. nil ise rate limiting devre dışı kalır.
// geoResolver: Login IP'sinin yaklaşık konumunu loglar. nil ise atlanır.
func NewAuthHandler(
	authService services.AuthService,
	loginLimiter *ratelimit.LoginRateLimiter,
	geoResolver *geo.Resolver,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: loginLimiter,
		geoResolver:  geoResolver,
	}
}

// Register godoc
// POST /api/auth/register
// İlk kayıt olan kullanıcı otomatik platform admin olur.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest

	// json.NewDecoder: Request body'yi Go struct'ına parse eder.
	// r.Body bir io.Reader'dır — stream olarak okunur, hepsini belleğe almaz.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, tokens)
}

// Login godoc
// POST /api/auth/login
//
// Rate limiting: IP bazlı brute-force koruması.
// - Her IP adresi için belirli bir zaman penceresi içinde izin verilen
//   maksimum login denemesi sayısı sınırlandırılır.
// - Limit aşıldığında 429 Too Many Requests döner.
// - Başarılı login sayacı sıfırlar — meşru kullanıcı bloke olmaz.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	// Rate limit kontrolü — brute-force koruması
	ip := ratelimit.ExtractIP(r)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(ip) {
		retryAfter := h.loginLimiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many login attempts, please try again in %s",
				ratelimit.FormatRetryMessage(retryAfter)))
		return
	}

	var req models.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	// Başarılı login — sayacı sıfırla.
	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}

	// Login konumunu arka planda logla — response'u BLOKLAMAZ.
	// Lookup zaten 5 saniye ile sınırlı; başarısız olsa da sadece log eksik kalır.
	if h.geoResolver != nil {
		go func(userID, ip string) {
			location := h.geoResolver.Lookup(context.Background(), ip)
			log.Printf("[auth] user %s logged in from %s (%s)", userID, ip, location)
		}(tokens.User.ID, ip)
	}

	pkg.JSON(w, http.StatusOK, tokens)
}

// Refresh godoc
// POST /api/auth/refresh
// Body: { "refresh_token": "..." }
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RefreshToken == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	tokens, err := h.authService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, tokens)
}

// Logout godoc
// POST /api/auth/logout
// Body: { "refresh_token": "..." }
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me godoc
// GET /api/users/me
// Auth middleware gerektirir — context'te user bilgisi olur.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// ChangePassword godoc
// POST /api/users/me/password
// Auth middleware gerektirir — kullanıcı kendi şifresini değiştirir.
//
// Body: { "current_password": "...", "new_password": "..." }
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// ForgotPassword godoc
// POST /api/auth/forgot-password
// Body: { "email": "..." }
//
// Güvenlik: Email DB'de yoksa bile aynı success yanıtı döner (enumeration koruması).
// Cooldown aşımında da aynı yanıt — detay sızdırılmaz.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"message": "if the email exists, a reset link has been sent",
	})
}

// ResetPassword godoc
// POST /api/auth/reset-password
// Body: { "token": "...", "new_password": "..." }
//
// Email'deki token ile şifre sıfırlar. Token doğrulanır, şifre güncellenir,
// token silinir ve kullanıcının tüm oturumları kapatılır.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"message": "password has been reset successfully",
	})
}

// UserContextKey, context'te kullanıcı bilgisi taşımak için kullanılan key tipi.
//
// Go'da context.Value() any tip kabul eder — string key kullanmak çakışmaya neden olabilir.
// Özel bir tip tanımlayarak namespace collision'ı önleriz.
type contextKey string

const UserContextKey contextKey = "user"
