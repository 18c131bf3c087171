package models

import "time"

// Session, bir cihazdaki refresh token oturumunu temsil eder.
//
// Access token kısa ömürlüdür (varsayılan 15dk), refresh token uzun (7 gün).
// Refresh token'lar DB'de tutulur çünkü:
//   - Şifre sıfırlamada kullanıcının TÜM oturumları tek seferde düşürülür
//   - Her refresh'te eski session silinip yenisi yazılır (rotation) —
//     çalınan bir token ilk kullanımda geçersizleşir
//   - Logout sadece ilgili cihazın oturumunu siler, diğer cihazlar açık kalır
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"-"` // API'ye gönderilmez
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}
