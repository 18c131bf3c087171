package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// EventPublisher, service katmanının WebSocket event'leri broadcast etmek için
// kullandığı interface.
//
// Dependency Inversion: Service'ler Hub'ın concrete struct'ına değil,
// bu interface'e bağımlıdır. Böylece:
// 1. Service test edilirken mock EventPublisher kullanılabilir
// 2. Hub implementasyonu değişse bile service kodu etkilenmez
type EventPublisher interface {
	BroadcastToAll(event Event)
	BroadcastToUser(userID string, event Event)
	GetOnlineUserIDs() []string
}

// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır (Observer pattern).
//
// Go channel nedir? (register, unregister)
// Goroutine'ler arası güvenli iletişim sağlayan yapılar.
// Hub.Run() goroutine'i bu channel'lardan `select` ile okur:
// - register channel'dan yeni client gelirse → clients map'e ekle
// - unregister channel'dan client gelirse → map'ten çıkar
type Hub struct {
	// clients: userID → Client set (bir kullanıcının birden fazla cihazı olabilir).
	// map[string]map[*Client]bool — Go'da set yoktur, map[*Client]bool kullanılır.
	// bool değeri her zaman true'dur — sadece varlık kontrolü için kullanılır.
	clients map[string]map[*Client]bool

	// mu: clients map'ini koruyan read-write mutex.
	// Birden fazla okuyucu aynı anda erişebilir (RLock),
	// yazma işlemi sırasında tüm erişim bloklanır (Lock).
	mu sync.RWMutex

	// register/unregister: Client giriş/çıkış sinyalleri.
	register   chan *Client
	unregister chan *Client

	// seq: Her outbound event'e verilen artan sayaç.
	// atomic.Int64: Birden fazla goroutine'in güvenle okuyup yazabildiği sayı.
	seq atomic.Int64

	// displayNames: userID → görünen ad cache (presence için).
	displayNames map[string]string
	userMu       sync.RWMutex

	// Callback'ler — relay presence takibi main tarafında wire edilir.
	// Hub, presence service'i tanımaz (circular dependency önlenir);
	// sadece "şu kullanıcı şu yayına katıldı" sinyalini iletir.
	onRelayJoin           func(userID, displayName, relayID string)
	onRelayLeave          func(userID, relayID string)
	onUserFullyDisconnected func(userID string)
}

// NewHub, yeni bir Hub oluşturur.
func NewHub() *Hub {
	return &Hub{
		clients:      make(map[string]map[*Client]bool),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		displayNames: make(map[string]string),
	}
}

// OnRelayJoin, relay_join event'i geldiğinde çağrılacak callback'i kaydeder.
func (h *Hub) OnRelayJoin(fn func(userID, displayName, relayID string)) {
	h.onRelayJoin = fn
}

// OnRelayLeave, relay_leave event'i geldiğinde çağrılacak callback'i kaydeder.
func (h *Hub) OnRelayLeave(fn func(userID, relayID string)) {
	h.onRelayLeave = fn
}

// OnUserFullyDisconnected, kullanıcının SON bağlantısı koptuğunda çağrılacak
// callback'i kaydeder. Presence service kullanıcıyı tüm yayınlardan düşürür —
// sekmeyi kapatan kullanıcı izleyici sayısında takılı kalmaz.
func (h *Hub) OnUserFullyDisconnected(fn func(userID string)) {
	h.onUserFullyDisconnected = fn
}

// Run, Hub'ın ana event loop'udur. main.go'da `go hub.Run()` ile başlatılır.
//
// select nedir?
// Birden fazla channel'ı aynı anda dinler.
// Hangi channel'dan veri gelirse o case çalışır.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// addClient, yeni bir client'ı Hub'a ekler.
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	log.Printf("[ws] client connected: user=%s (total connections for user: %d)",
		client.userID, len(h.clients[client.userID]))
}

// removeClient, bir client'ı Hub'dan çıkarır ve send channel'ını kapatır.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.closeSend()

			// Kullanıcının başka bağlantısı kalmadıysa map'ten sil
			if len(clients) == 0 {
				delete(h.clients, client.userID)
				log.Printf("[ws] user fully disconnected: %s", client.userID)

				if h.onUserFullyDisconnected != nil {
					go h.onUserFullyDisconnected(client.userID)
				}
			} else {
				log.Printf("[ws] client disconnected: user=%s (remaining: %d)",
					client.userID, len(clients))
			}
		}
	}
}

// BroadcastToAll, tüm bağlı client'lara event gönderir.
func (h *Hub) BroadcastToAll(event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal broadcast event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for client := range clients {
			if !client.trySend(data) {
				// Buffer dolu — bu client yavaş, kapat
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

// BroadcastToUser, belirli bir kullanıcının tüm bağlantılarına event gönderir.
func (h *Hub) BroadcastToUser(userID string, event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal user event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[userID]; ok {
		for client := range clients {
			if !client.trySend(data) {
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

// GetOnlineUserIDs, bağlı olan tüm kullanıcı ID'lerini döner.
func (h *Hub) GetOnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		ids = append(ids, userID)
	}
	return ids
}

// SetUserDisplayName, kullanıcı bağlandığında görünen ad cache'ini günceller.
func (h *Hub) SetUserDisplayName(userID, displayName string) {
	h.userMu.Lock()
	defer h.userMu.Unlock()
	h.displayNames[userID] = displayName
}

// getUserDisplayName, userID'den görünen adı döner (relay join için).
func (h *Hub) getUserDisplayName(userID string) string {
	h.userMu.RLock()
	defer h.userMu.RUnlock()
	return h.displayNames[userID]
}

// Shutdown, tüm client bağlantılarını kapatır (graceful shutdown).
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.closeSend()
		}
	}
	h.clients = make(map[string]map[*Client]bool)
	log.Println("[ws] hub shut down, all connections closed")
}
