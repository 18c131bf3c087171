// Package services, business logic katmanını barındırır.
//
// Service Layer Pattern nedir?
// Handler (HTTP) ile Repository (DB) arasında oturan katmandır.
// Tüm iş kuralları burada yaşar:
//   - Şifre hash'leme
//   - JWT token oluşturma
//   - Yetki kontrolleri
//
// Service ASLA http.Request/Response bilmez — sadece domain modelleri alır/verir.
// Service ASLA doğrudan SQL çalıştırmaz — Repository interface'i kullanır.
package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anjuman/hub/database"
	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/pkg/email"
	"github.com/anjuman/hub/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Şifre sıfırlama akışı sabitleri.
const (
	// resetTokenTTL: email'deki link bu kadar süre geçerli.
	resetTokenTTL = 20 * time.Minute

	// resetRequestCooldown: aynı kullanıcı için iki mail arası minimum süre.
	// Mail bombardımanını önler.
	resetRequestCooldown = 90 * time.Second
)

// AuthService interface'i — dışarıya açık API.
// Handler bu interface'e bağımlıdır, concrete struct'a değil.
type AuthService interface {
	Register(ctx context.Context, req *models.CreateUserRequest) (*AuthTokens, error)
	Login(ctx context.Context, req *models.LoginRequest) (*AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
	// ChangePassword, oturum açmış kullanıcının şifresini değiştirir.
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	// ForgotPassword, email'e şifre sıfırlama linki gönderir.
	// Kullanıcı bulunamasa bile hata DÖNMEZ — email enumeration önlenir.
	ForgotPassword(ctx context.Context, emailAddr string) error
	// ResetPassword, token ile şifreyi sıfırlar ve tüm oturumları kapatır.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AuthTokens, login/register sonrası dönen token çifti.
type AuthTokens struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
}

// authService, AuthService interface'inin implementasyonu.
type authService struct {
	db          *sql.DB // Transaction desteği (WithTx) için — ResetPassword atomik çalışır
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	resetRepo   repository.ResetTokenRepository
	mailer      email.EmailSender
	jwtSecret   []byte
	accessExp   time.Duration
	refreshExp  time.Duration
}

// NewAuthService, constructor.
//
// db: ResetPassword'daki WithTx için doğrudan *sql.DB gerekir —
// tx-bound repository'ler transaction içinde oradan kurulur.
//
// İlk kayıt olan kullanıcı otomatik olarak platform admin olur —
// kurulum sonrası ayrı bir seed adımı gerekmez.
func NewAuthService(
	db *sql.DB,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	resetRepo repository.ResetTokenRepository,
	mailer email.EmailSender,
	jwtSecret string,
	accessExpMinutes int,
	refreshExpDays int,
) AuthService {
	return &authService{
		db:          db,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		resetRepo:   resetRepo,
		mailer:      mailer,
		jwtSecret:   []byte(jwtSecret),
		accessExp:   time.Duration(accessExpMinutes) * time.Minute,
		refreshExp:  time.Duration(refreshExpDays) * 24 * time.Hour,
	}
}

// Register, yeni kullanıcı kaydı oluşturur.
func (s *authService) Register(ctx context.Context, req *models.CreateUserRequest) (*AuthTokens, error) {
	// 1. Validation
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// 2. Bcrypt hash (cost=12)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// 3. User oluştur
	var displayName *string
	if req.DisplayName != "" {
		displayName = &req.DisplayName
	}

	var emailAddr *string
	if req.Email != "" {
		emailAddr = &req.Email
	}

	// İlk kullanıcı platform admin olur
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	user := &models.User{
		Username:        req.Username,
		DisplayName:     displayName,
		Email:           emailAddr,
		PasswordHash:    string(hash),
		IsPlatformAdmin: count == 0,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err // ErrAlreadyExists olabilir
	}

	// 4. Token çifti oluştur
	return s.generateTokens(ctx, user)
}

// Login, kullanıcı girişi yapar.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*AuthTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			// "Kullanıcı yok" ile "şifre yanlış" ayırt EDİLMEZ — bilgi sızıntısı
			return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
	}

	return s.generateTokens(ctx, user)
}

// RefreshToken, süresi dolmuş access token'ı yenilemek için kullanılır.
// Token rotation: eski session silinir, yeni session + yeni token çifti üretilir.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		if delErr := s.sessionRepo.DeleteByID(ctx, session.ID); delErr != nil {
			return nil, fmt.Errorf("failed to delete expired session: %w", delErr)
		}
		return nil, fmt.Errorf("%w: refresh token expired", pkg.ErrUnauthorized)
	}

	if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to delete old session: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, user)
}

// Logout, refresh token'ı iptal eder (session siler).
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil // zaten geçersiz — logout başarılı say
		}
		return err
	}

	return s.sessionRepo.DeleteByID(ctx, session.ID)
}

// ValidateAccessToken, JWT access token'ı doğrular ve claims'i döner.
func (s *authService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}

	return claims, nil
}

// ChangePassword, kullanıcının şifresini değiştirir.
func (s *authService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	req := &models.ChangePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", pkg.ErrUnauthorized)
	}

	if currentPassword == newPassword {
		return fmt.Errorf("%w: new password must be different from current password", pkg.ErrBadRequest)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(newHash))
}

// ForgotPassword, şifre sıfırlama maili gönderir.
//
// Güvenlik notları:
//   - Email kayıtlı değilse de nil döner — saldırgan hangi emaillerin
//     kayıtlı olduğunu öğrenemez (email enumeration)
//   - Cooldown içinde tekrar istenirse sessizce atlanır
//   - DB'de token'ın SADECE SHA256 hash'i saklanır
func (s *authService) ForgotPassword(ctx context.Context, emailAddr string) error {
	req := &models.ForgotPasswordRequest{Email: emailAddr}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// Email servisi yapılandırılmamışsa (development) mail çıkmaz ama
	// yanıt yine success'tir — client davranışı değişmez.
	if s.mailer == nil {
		log.Printf("[auth] password reset requested but email service is disabled")
		return nil
	}

	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			log.Printf("[auth] password reset requested for unknown email")
			return nil
		}
		return err
	}

	// Cooldown kontrolü
	lastAt, err := s.resetRepo.LastRequestAt(ctx, user.ID)
	if err != nil {
		return err
	}
	if lastAt != nil && time.Since(*lastAt) < resetRequestCooldown {
		log.Printf("[auth] password reset throttled for user %s", user.ID)
		return nil
	}

	// 32 byte random token üret
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	plainToken := hex.EncodeToString(tokenBytes)

	hash := sha256.Sum256([]byte(plainToken))
	resetToken := &models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hex.EncodeToString(hash[:]),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}

	if err := s.resetRepo.Create(ctx, resetToken); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, *user.Email, plainToken); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	log.Printf("[auth] password reset email sent for user %s", user.ID)
	return nil
}

// ResetPassword, token ile şifreyi sıfırlar.
// Başarılı sıfırlama sonrası kullanıcının TÜM oturumları kapatılır —
// şifre çalındıysa saldırganın açık oturumları da düşer.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	req := &models.ResetPasswordRequest{Token: token, NewPassword: newPassword}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	hash := sha256.Sum256([]byte(token))
	record, err := s.resetRepo.GetByHash(ctx, hex.EncodeToString(hash[:]))
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrUnauthorized)
		}
		return err
	}

	if time.Now().After(record.ExpiresAt) {
		_ = s.resetRepo.DeleteByID(ctx, record.ID)
		return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrUnauthorized)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	// ─── Atomik transaction: şifre + token'lar + oturumlar ───
	//
	// Üç yazma tek transaction'da çalışır. Herhangi biri başarısız olursa
	// ROLLBACK — "şifre değişti ama eski oturumlar hâlâ açık" gibi yarım
	// bir durum oluşamaz.
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		// Transaction-bound repository'ler — aynı tx üzerinden çalışır
		txUserRepo := repository.NewSQLiteUserRepo(tx)
		txResetRepo := repository.NewSQLiteResetTokenRepo(tx)
		txSessionRepo := repository.NewSQLiteSessionRepo(tx)

		if err := txUserRepo.UpdatePassword(ctx, record.UserID, string(newHash)); err != nil {
			return err
		}

		// Token tek kullanımlık — kullanıcının tüm bekleyen token'ları da silinir
		if err := txResetRepo.DeleteByUserID(ctx, record.UserID); err != nil {
			return err
		}

		return txSessionRepo.DeleteByUserID(ctx, record.UserID)
	})
}

// ─── Private Helpers ───

func (s *authService) generateTokens(ctx context.Context, user *models.User) (*AuthTokens, error) {
	now := time.Now()
	accessClaims := &models.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "anjuman-hub",
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshBytes := make([]byte, 32)
	if _, err := rand.Read(refreshBytes); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refreshString := hex.EncodeToString(refreshBytes)

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: refreshString,
		ExpiresAt:    now.Add(s.refreshExp),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	user.PasswordHash = ""

	return &AuthTokens{
		AccessToken:  accessString,
		RefreshToken: refreshString,
		User:         *user,
	}, nil
}
