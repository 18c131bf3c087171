// Package geo — best-effort IP geolocation.
//
// Login sırasında kullanıcının yaklaşık konumunu loglamak için kullanılır
// ("user X logged in from Istanbul, Turkey"). Kritik bir akış DEĞİLDİR:
// servis yavaşsa, erişilemezse veya IP çözülemiyorsa "unknown" döner ve
// login hiçbir şekilde etkilenmez.
//
// Lookup her zaman 5 saniyelik hard timeout ile çalışır — dış servisin
// takılması login path'ini asla bu süreden fazla bekletemez.
// Sonuçlar TTLCache'te tutulur: aynı IP'nin arka arkaya login'leri
// dış servise tekrar gitmez.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/anjuman/hub/pkg/cache"
)

// lookupTimeout, tek bir geolocation isteğinin üst sınırı.
const lookupTimeout = 5 * time.Second

// Resolver, IP → konum çözümleme yapan yapı.
type Resolver struct {
	client  *http.Client
	baseURL string
	cache   *cache.TTLCache[string, string]
}

// NewResolver, yeni bir Resolver oluşturur.
// baseURL: ip-api uyumlu JSON endpoint (ör: "http://ip-api.com/json").
func NewResolver(baseURL string) *Resolver {
	return &Resolver{
		client:  &http.Client{},
		baseURL: baseURL,
		cache:   cache.New[string, string](time.Hour, 10*time.Minute),
	}
}

// lookupResponse, ip-api.com JSON yanıtının kullandığımız alanları.
type lookupResponse struct {
	Status  string `json:"status"` // "success" veya "fail"
	City    string `json:"city"`
	Country string `json:"country"`
}

// Lookup, IP adresini "City, Country" formatında konuma çözer.
// Her hata durumu (timeout, ağ hatası, bozuk yanıt, private IP) "unknown"
// olarak yutulur — caller asla error görmez.
func (r *Resolver) Lookup(ctx context.Context, ip string) string {
	if ip == "" {
		return "unknown"
	}

	if loc, ok := r.cache.Get(ip); ok {
		return loc
	}

	// Hard timeout: caller'ın context'i ne olursa olsun 5 saniyeyi aşamaz.
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s", r.baseURL, ip), nil)
	if err != nil {
		return "unknown"
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "unknown"
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "unknown"
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "unknown"
	}

	// ip-api private/reserved IP'lerde status=fail döner
	if body.Status != "success" || body.City == "" {
		return "unknown"
	}

	loc := body.City + ", " + body.Country
	r.cache.Set(ip, loc)
	return loc
}

// Close, resolver'ın cache temizleme goroutine'ini durdurur.
func (r *Resolver) Close() {
	r.cache.Close()
}
