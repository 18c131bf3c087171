package services

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/anjuman/hub/database"
	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *fakeSessionRepo, *fakeResetRepo, *fakeMailer) {
	t.Helper()
	userRepo := newFakeUserRepo()
	sessionRepo := newFakeSessionRepo()
	resetRepo := newFakeResetRepo()
	mailer := &fakeMailer{}
	svc := NewAuthService(nil, userRepo, sessionRepo, resetRepo, mailer, "test-secret", 15, 7)
	return svc, userRepo, sessionRepo, resetRepo, mailer
}

// newAuthDBFixture, gerçek bir SQLite dosyası üzerinde çalışan fixture.
// Şifre sıfırlama akışı WithTx kullanır — transaction davranışı ancak
// gerçek bir bağlantıyla test edilebilir.
func newAuthDBFixture(t *testing.T) (AuthService, *sql.DB, *fakeMailer) {
	t.Helper()

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(t.TempDir(), "auth_test.db"), migrationsFS)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mailer := &fakeMailer{}
	svc := NewAuthService(
		db.Conn,
		repository.NewSQLiteUserRepo(db.Conn),
		repository.NewSQLiteSessionRepo(db.Conn),
		repository.NewSQLiteResetTokenRepo(db.Conn),
		mailer, "test-secret", 15, 7,
	)
	return svc, db.Conn, mailer
}

func sessionCount(t *testing.T, conn *sql.DB, userID string) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(
		`SELECT COUNT(*) FROM sessions WHERE user_id = ?`, userID,
	).Scan(&n))
	return n
}

func registerUser(t *testing.T, svc AuthService, username, password, emailAddr string) *AuthTokens {
	t.Helper()
	tokens, err := svc.Register(context.Background(), &models.CreateUserRequest{
		Username: username,
		Password: password,
		Email:    emailAddr,
	})
	require.NoError(t, err)
	return tokens
}

func TestRegisterFirstUserBecomesPlatformAdmin(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(t)

	first := registerUser(t, svc, "mustafa", "password123", "")
	assert.True(t, first.User.IsPlatformAdmin, "first registered user must be platform admin")

	second := registerUser(t, svc, "husain", "password123", "")
	assert.False(t, second.User.IsPlatformAdmin)
}

func TestRegisterDoesNotLeakPasswordHash(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(t)

	tokens := registerUser(t, svc, "mustafa", "password123", "")
	assert.Empty(t, tokens.User.PasswordHash)
}

func TestLoginWrongPasswordAndUnknownUserAreIndistinguishable(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	registerUser(t, svc, "mustafa", "password123", "")

	_, errWrongPass := svc.Login(ctx, &models.LoginRequest{Username: "mustafa", Password: "wrong-pass"})
	_, errNoUser := svc.Login(ctx, &models.LoginRequest{Username: "ghost", Password: "wrong-pass"})

	require.Error(t, errWrongPass)
	require.Error(t, errNoUser)
	// İki durumda da aynı mesaj — kullanıcı varlığı sızdırılmaz
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
	assert.ErrorIs(t, errWrongPass, pkg.ErrUnauthorized)
}

func TestRefreshTokenRotatesSession(t *testing.T) {
	svc, _, sessionRepo, _, _ := newAuthFixture(t)
	ctx := context.Background()

	tokens := registerUser(t, svc, "mustafa", "password123", "")

	refreshed, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, refreshed.RefreshToken)

	// Eski refresh token artık geçersiz — rotation
	_, err = svc.RefreshToken(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	// Toplamda tek aktif session kalır
	assert.Equal(t, 1, sessionRepo.countForUser(refreshed.User.ID))
}

func TestValidateAccessTokenRoundTrip(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(t)

	tokens := registerUser(t, svc, "mustafa", "password123", "")

	claims, err := svc.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.User.ID, claims.UserID)
	assert.Equal(t, "mustafa", claims.Username)

	_, err = svc.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestLogoutWithUnknownTokenIsNoop(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(t)

	assert.NoError(t, svc.Logout(context.Background(), "unknown-token"))
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	tokens := registerUser(t, svc, "mustafa", "password123", "")

	err := svc.ChangePassword(ctx, tokens.User.ID, "wrong-pass", "newpassword1")
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	require.NoError(t, svc.ChangePassword(ctx, tokens.User.ID, "password123", "newpassword1"))

	// Yeni şifre ile login olur, eskisi ile olamaz
	_, err = svc.Login(ctx, &models.LoginRequest{Username: "mustafa", Password: "newpassword1"})
	assert.NoError(t, err)
	_, err = svc.Login(ctx, &models.LoginRequest{Username: "mustafa", Password: "password123"})
	assert.Error(t, err)
}

func TestForgotPasswordUnknownEmailReturnsNil(t *testing.T) {
	svc, _, _, _, mailer := newAuthFixture(t)

	// Email enumeration koruması: bilinmeyen adres de success
	err := svc.ForgotPassword(context.Background(), "nobody@example.org")
	assert.NoError(t, err)
	assert.Zero(t, mailer.sentCount())
}

func TestForgotPasswordCooldownSkipsSecondMail(t *testing.T) {
	svc, _, _, _, mailer := newAuthFixture(t)
	ctx := context.Background()

	registerUser(t, svc, "mustafa", "password123", "mustafa@example.org")

	require.NoError(t, svc.ForgotPassword(ctx, "mustafa@example.org"))
	require.NoError(t, svc.ForgotPassword(ctx, "mustafa@example.org")) // cooldown içinde

	assert.Equal(t, 1, mailer.sentCount(), "second request within cooldown must not send mail")
}

func TestResetPasswordFlowInvalidatesSessions(t *testing.T) {
	svc, conn, mailer := newAuthDBFixture(t)
	ctx := context.Background()

	tokens := registerUser(t, svc, "mustafa", "password123", "mustafa@example.org")
	userID := tokens.User.ID

	require.NoError(t, svc.ForgotPassword(ctx, "mustafa@example.org"))
	plainToken := mailer.lastToken()
	require.NotEmpty(t, plainToken)

	require.NoError(t, svc.ResetPassword(ctx, plainToken, "brandnewpass1"))

	// Tüm oturumlar ve bekleyen tokenlar silinir
	assert.Zero(t, sessionCount(t, conn, userID))
	var tokenCount int
	require.NoError(t, conn.QueryRow(
		`SELECT COUNT(*) FROM password_reset_tokens WHERE user_id = ?`, userID,
	).Scan(&tokenCount))
	assert.Zero(t, tokenCount)

	// Token tek kullanımlık
	err := svc.ResetPassword(ctx, plainToken, "anotherpass12")
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	// Yeni şifre çalışır
	_, err = svc.Login(ctx, &models.LoginRequest{Username: "mustafa", Password: "brandnewpass1"})
	assert.NoError(t, err)
}

func TestResetPasswordExpiredTokenRejected(t *testing.T) {
	svc, conn, mailer := newAuthDBFixture(t)
	ctx := context.Background()

	registerUser(t, svc, "mustafa", "password123", "mustafa@example.org")
	require.NoError(t, svc.ForgotPassword(ctx, "mustafa@example.org"))

	// Token'ın süresini geçmişe çek
	_, err := conn.ExecContext(ctx,
		`UPDATE password_reset_tokens SET expires_at = ?`, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, mailer.lastToken(), "brandnewpass1")
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestResetPasswordRollsBackWhenAStepFails(t *testing.T) {
	svc, conn, mailer := newAuthDBFixture(t)
	ctx := context.Background()

	registerUser(t, svc, "mustafa", "password123", "mustafa@example.org")
	require.NoError(t, svc.ForgotPassword(ctx, "mustafa@example.org"))

	var hashBefore string
	require.NoError(t, conn.QueryRow(
		`SELECT password_hash FROM users WHERE username = 'mustafa'`,
	).Scan(&hashBefore))

	// Oturum silme adımı patlasın
	_, err := conn.ExecContext(ctx, `DROP TABLE sessions`)
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, mailer.lastToken(), "brandnewpass1")
	require.Error(t, err)

	// ROLLBACK: şifre değişmedi, reset token hâlâ duruyor —
	// "şifre yeni ama eski oturumlar açık" ara durumu oluşmaz
	var hashAfter string
	require.NoError(t, conn.QueryRow(
		`SELECT password_hash FROM users WHERE username = 'mustafa'`,
	).Scan(&hashAfter))
	assert.Equal(t, hashBefore, hashAfter)

	var tokenCount int
	require.NoError(t, conn.QueryRow(
		`SELECT COUNT(*) FROM password_reset_tokens`,
	).Scan(&tokenCount))
	assert.Equal(t, 1, tokenCount)
}
