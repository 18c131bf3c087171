// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Model nedir?
// Veritabanındaki bir tablonun Go karşılığıdır.
// Aynı zamanda API'den gelen/giden verilerin şeklini de belirler.
//
// Go'da `json:"username"` gibi tag'ler, struct field'larının JSON'a
// nasıl serialize/deserialize edileceğini belirler.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// User, bir topluluk üyesini temsil eder.
// JSON tag'leri API response'larında kullanılır.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	DisplayName     *string   `json:"display_name"` // *string = nullable — Go'da nil olabilir
	Email           *string   `json:"email"`
	AvatarURL       *string   `json:"avatar_url"`
	PasswordHash    string    `json:"-"` // json:"-" → API response'a DAHİL ETME (güvenlik!)
	IsPlatformAdmin bool      `json:"is_platform_admin"`
	IsRestricted    bool      `json:"is_restricted"` // kısıtlı üyeler medya yükleyemez
	CreatedAt       time.Time `json:"created_at"`
}

// Name, kullanıcının görünen adını döner — DisplayName boşsa Username.
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}

// CreateUserRequest, kayıt olurken frontend'den gelen veri.
// PasswordHash yerine Password alırız — hash'leme service katmanında yapılır.
type CreateUserRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"` // opsiyonel — şifre sıfırlama maili için
}

// Validate, CreateUserRequest'in geçerli olup olmadığını kontrol eder.
// Validation kuralları:
//   - Username: 3-32 karakter, alfanumerik + alt çizgi
//   - Password: minimum 8 karakter
//   - DisplayName: opsiyonel, max 64 karakter
//   - Email: opsiyonel, basit format kontrolü
func (r *CreateUserRequest) Validate() error {
	// Username kontrolü
	r.Username = strings.TrimSpace(r.Username)
	usernameLen := utf8.RuneCountInString(r.Username)
	if usernameLen < 3 || usernameLen > 32 {
		return fmt.Errorf("username must be between 3 and 32 characters")
	}

	for _, ch := range r.Username {
		if !isValidUsernameChar(ch) {
			return fmt.Errorf("username can only contain letters, numbers, and underscores")
		}
	}

	// Password kontrolü
	if utf8.RuneCountInString(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	// DisplayName kontrolü (opsiyonel)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if utf8.RuneCountInString(r.DisplayName) > 64 {
		return fmt.Errorf("display name must be at most 64 characters")
	}

	// Email kontrolü (opsiyonel)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		return fmt.Errorf("email address is not valid")
	}

	return nil
}

// LoginRequest, giriş yaparken frontend'den gelen veri.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate, LoginRequest'in geçerli olup olmadığını kontrol eder.
func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// ChangePasswordRequest, oturum açmış kullanıcının şifre değişikliği için.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Validate, ChangePasswordRequest'in geçerli olup olmadığını kontrol eder.
func (r *ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return fmt.Errorf("current password is required")
	}
	if utf8.RuneCountInString(r.NewPassword) < 8 {
		return fmt.Errorf("new password must be at least 8 characters")
	}
	return nil
}

// isValidUsernameChar, username'de izin verilen karakterleri kontrol eder.
func isValidUsernameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_'
}
