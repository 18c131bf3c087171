// Package cache — in-memory cache yapıları.
//
// Bu dosya generic TTLCache'i içerir: çok key'li, süre bazlı cache.
// Geolocation lookup sonuçları gibi sık erişilen ama nadiren değişen
// verileri bellekte tutmak için kullanılır.
//
// TTL (Time To Live) nedir?
// Her cache entry'si bir "son kullanma tarihi" taşır.
// Bu tarih geçtikten sonra entry okunamaz — cache miss olur.
// Stale entry'ler arka planda periyodik olarak temizlenir.
package cache

import (
	"sync"
	"time"
)

// entry, cache'teki tek bir kayıttır.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, generic in-memory TTL cache.
//
//	c := cache.New[string, string](time.Hour, 10*time.Minute)
//	c.Set("1.2.3.4", "Istanbul, Turkey")
//	val, ok := c.Get("1.2.3.4")
//
// sync.RWMutex ile korunur — birden fazla goroutine aynı anda okuyabilir,
// yazma sırasında tüm erişim bloklanır.
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration

	// stopCleanup: periyodik temizleme goroutine'ini durdurmak için.
	stopCleanup chan struct{}
}

// New, yeni bir TTLCache oluşturur ve periyodik temizleme goroutine'ini başlatır.
//
// ttl: her entry'nin yaşam süresi.
// cleanupInterval: süresi dolan entry'lerin ne sıklıkla map'ten silineceği.
// Her Get'te süre kontrolü zaten yapılır (stale entry dönmez) —
// periyodik silme sadece bellek sızıntısını önler.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries:     make(map[K]entry[V]),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stopCleanup:
				return
			}
		}
	}()

	return c
}

// Get, cache'ten bir değer okur.
// (value, true) eğer key varsa ve süresi dolmamışsa, (zero, false) aksi halde.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set, cache'e bir değer yazar (TTL ile).
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete, belirli bir key'i cache'ten siler.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear, tüm cache'i boşaltır.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]entry[V])
}

// Len, cache'teki toplam entry sayısını döner (süresi dolmuşlar dahil).
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close, periyodik temizleme goroutine'ini durdurur.
// Cache artık kullanılmayacaksa çağrılmalıdır (goroutine leak önleme).
func (c *TTLCache[K, V]) Close() {
	close(c.stopCleanup)
}

// evictExpired, süresi dolan entry'leri map'ten fiziksel olarak siler.
func (c *TTLCache[K, V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
