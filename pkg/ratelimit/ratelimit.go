// Package ratelimit — LoginRateLimiter: brute-force saldırılarına karşı
// IP bazlı login rate limiting.
//
// Tasarım:
// - Her IP adresi için sliding window ile istek sayısı takip edilir.
// - Window süresi içinde maxAttempts aşılırsa istek reddedilir.
// - Başarılı login sonrası Reset() ile sayaç sıfırlanır.
// - Background goroutine ile süresi dolmuş bucket'lar temizlenir.
//
// Neden in-memory?
// - SQLite'a her request'te yazmak gereksiz I/O + contention yaratır.
// - Tek instance deploy için Redis bağımlılığı eklemeye gerek yok.
//
// pkg/ratelimit hiçbir proje içi pakete bağımlı değildir (leaf dependency) —
// handlers ↔ middleware arasında import cycle oluşmaz.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// bucket, bir IP adresi için istek sayacı ve window başlangıç zamanı tutar.
type bucket struct {
	count       int
	windowStart time.Time
}

// LoginRateLimiter, IP bazlı login rate limiting.
//
//	limiter := NewLoginRateLimiter(5, 2*time.Minute)
//	if !limiter.Allow(ip) { return 429 }
//	// başarılı login'de:
//	limiter.Reset(ip)
type LoginRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*bucket
	maxAttempts int
	window      time.Duration
	stopCleanup chan struct{}
}

// NewLoginRateLimiter, yeni rate limiter oluşturur ve arka plan temizleme
// goroutine'ini başlatır.
//
// maxAttempts: pencere başına izin verilen login denemesi (ör: 5).
// window: pencere süresi (ör: 2*time.Minute → 2 dakikada 5 deneme).
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		buckets:     make(map[string]*bucket),
		maxAttempts: maxAttempts,
		window:      window,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow, verilen IP'nin login denemesine izin verilip verilmediğini döner.
// false → caller 429 dönmeli. Her çağrı sayacı artırır;
// başarılı login'de caller Reset() çağırmalıdır.
func (rl *LoginRateLimiter) Allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists {
		rl.buckets[ip] = &bucket{count: 1, windowStart: now}
		return true
	}

	// Window süresi dolmuş mu?
	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	return b.count <= rl.maxAttempts
}

// Reset, başarılı login sonrası IP sayacını sıfırlar.
// Temizlenmezse meşru kullanıcı sonraki denemelerde bloke olabilir.
func (rl *LoginRateLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, ip)
}

// RetryAfterSeconds, rate limit aşıldığında kalan bekleme süresini saniye
// cinsinden döner. HTTP Retry-After header değeri olarak kullanılır.
func (rl *LoginRateLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, exists := rl.buckets[ip]
	if !exists {
		return 0
	}

	remaining := rl.window - time.Since(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1 // +1 yuvarlama — client tam süreyi beklesin
}

// cleanupLoop, arka planda süresi dolmuş bucket'ları temizler.
func (rl *LoginRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanup, süresi dolmuş tüm bucket'ları siler.
func (rl *LoginRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window {
			delete(rl.buckets, ip)
		}
	}
}

// ExtractIP, HTTP request'ten client IP adresini çıkarır.
//
// Öncelik sırası:
// 1. X-Forwarded-For header (reverse proxy arkasındaysa, ilk IP)
// 2. X-Real-IP header (nginx gibi proxy'ler ekler)
// 3. RemoteAddr (doğrudan bağlantı)
func ExtractIP(r *http.Request) string {
	// X-Forwarded-For: client, proxy1, proxy2 — ilk değer gerçek client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage, kalan süreyi okunabilir formata çevirir.
// Örn: 120 → "2 minute(s)", 45 → "45 second(s)"
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
