// Package cache — Single: tek slot'lu, fetch-on-miss cache.
//
// TTLCache çok key'li bir map'tir; Single ise TEK bir değeri tutar ve
// değeri nereden getireceğini de kendisi bilir (constructor'a verilen
// fetch fonksiyonu). Uygulama ayarları gibi "tek satırlık" veriler için:
//
//	single := cache.NewSingle(fetchSettings, 5*time.Minute)
//	s, err := single.Get(ctx, false)
//
// Davranış garantileri:
//  1. TTL içinde Get hiç fetch yapmaz — cache'lenmiş değeri döner.
//  2. Aynı anda gelen N çağrı TEK bir fetch paylaşır: ilk çağrı fetch'i
//     başlatır, diğerleri aynı sonucu bekler (in-flight de-duplication).
//  3. Invalidate her an çağrılabilir — fetch devam ederken bile.
//     Devam eden fetch bekleyenlerine sonucunu vermeye devam eder,
//     ama invalidate kazanır: cache dolmaz, sonraki Get taze fetch yapar.
//  4. Fetch hatası slot'u zehirlemez: hata çağrana döner, önceki değer
//     (varsa) yerinde kalır ve TTL'i dolana kadar servis edilmeye devam eder.
package cache

import (
	"context"
	"sync"
	"time"
)

// FetchFunc, Single'ın değeri kaynaktan getirmek için çağırdığı fonksiyon.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// call, devam eden tek bir fetch'i temsil eder.
// done kapandığında val/err okunabilir — bekleyen tüm Get'ler paylaşır.
type call[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Single, tek değerli TTL cache.
// Tüm metodları thread-safe'dir.
type Single[T any] struct {
	mu    sync.Mutex
	fetch FetchFunc[T]
	ttl   time.Duration

	// now: test'lerde sahte saat enjekte edebilmek için fonksiyon olarak tutulur.
	now func() time.Time

	value     T
	hasValue  bool
	fetchedAt time.Time

	// inflight: şu anda çalışan fetch (nil = fetch yok).
	// Invalidate bu referansı temizler — sonraki Get taze bir fetch başlatır.
	inflight *call[T]
}

// NewSingle, yeni bir Single oluşturur.
// fetch: değeri kaynaktan getiren fonksiyon. ttl: değerin yaşam süresi.
func NewSingle[T any](fetch FetchFunc[T], ttl time.Duration) *Single[T] {
	return &Single[T]{
		fetch: fetch,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get, cache'lenmiş değeri döner; yoksa/bayatsa fetch eder.
//
// force=true TTL kontrolünü atlar ve taze bir okuma zorlar — ama devam
// eden bir fetch varsa yine ona katılır (çifte fetch başlatmaz).
func (s *Single[T]) Get(ctx context.Context, force bool) (T, error) {
	s.mu.Lock()

	// 1. TTL içindeyse cache'ten dön — sıfır fetch.
	if !force && s.hasValue && s.now().Sub(s.fetchedAt) < s.ttl {
		v := s.value
		s.mu.Unlock()
		return v, nil
	}

	// 2. Devam eden fetch varsa ona katıl — bekleyen herkes aynı sonucu alır.
	if s.inflight != nil {
		c := s.inflight
		s.mu.Unlock()

		select {
		case <-c.done:
			return c.val, c.err
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}

	// 3. Fetch'i biz başlatıyoruz.
	c := &call[T]{done: make(chan struct{})}
	s.inflight = c
	s.mu.Unlock()

	// Fetch mutex DIŞINDA çalışır — yavaş bir kaynak diğer
	// Invalidate/Get çağrılarını bloklamamalı.
	v, err := s.fetch(ctx)

	s.mu.Lock()
	c.val, c.err = v, err
	close(c.done)

	// Invalidate-wins kuralı: fetch sırasında Invalidate çağrıldıysa
	// s.inflight artık bu call'u göstermez. Bekleyenler sonucu yine alır
	// (c.done üzerinden), ama cache DOLDURULMAZ — bir sonraki Get taze
	// fetch başlatır. Invalidate edilmemişse başarılı sonuç cache'lenir.
	if s.inflight == c {
		s.inflight = nil
		if err == nil {
			s.value = v
			s.hasValue = true
			s.fetchedAt = s.now()
		}
		// Hata durumunda önceki değer ve fetchedAt'e DOKUNULMAZ —
		// slot zehirlenmez, eski değer TTL'i içinde servis edilmeye devam eder.
	}
	s.mu.Unlock()

	return v, err
}

// Invalidate, cache'lenmiş değeri ve devam eden fetch referansını temizler.
// Bir sonraki Get taze bir fetch başlatır.
//
// Fetch devam ederken çağrılabilir: o fetch bekleyenlerine sonucunu vermeye
// devam eder, ama inflight referansı silindiği için yeni Get'ler eski
// fetch'e katılmaz — kendi taze fetch'lerini başlatır.
func (s *Single[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	s.value = zero
	s.hasValue = false
	s.fetchedAt = time.Time{}
	s.inflight = nil
}
