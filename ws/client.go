package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket bağlantı sabitleri
const (
	// writeWait: Bir mesajı yazmak için maksimum bekleme süresi.
	// Bu süre aşılırsa bağlantı kapatılır (ağ sorunu olabilir).
	writeWait = 10 * time.Second

	// pongWait: Client'ın heartbeat göndermesi için beklenen maksimum süre.
	// 3 heartbeat kaçırma = 30s × 3 = 90s.
	// Bu sürede heartbeat gelmezse client bağlantısı kopmuş sayılır.
	pongWait = 90 * time.Second

	// maxMessageSize: Client'ın gönderebileceği maksimum mesaj boyutu (byte).
	// WebSocket mesajları küçük olmalı — büyük veri HTTP ile gönderilir.
	maxMessageSize = 4096

	// sendBufferSize: Her client'ın send channel'ının buffer boyutu.
	// Buffer doluysa (client yavaş) client disconnect edilir.
	sendBufferSize = 256
)

// Client, tek bir WebSocket bağlantısını temsil eder.
//
// Go'da WebSocket bağlantı yönetimi pattern'i:
// Her bağlantı için iki goroutine oluşturulur:
// - ReadPump: Client'dan gelen mesajları okur → Hub'a iletir
// - WritePump: Hub'dan gelen mesajları client'a yazar
//
// Neden iki goroutine?
// gorilla/websocket aynı anda sadece bir okuma ve bir yazma işlemi destekler.
// İki ayrı goroutine kullanarak okuma ve yazma birbirini bloklamaz.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	// send, client'a gönderilecek mesajların buffer'landığı channel.
	// Hub mesaj göndermek istediğinde trySend ile buffer'a ekler,
	// WritePump `data := <-client.send` ile okur.
	send chan []byte
	mu   sync.Mutex // conn.WriteMessage çağrılarını korur

	// sendMu + sendClosed: send channel'ının kapanışını korur.
	// Hub, yavaş client'ı düşürürken channel'ı kapatır; aynı anda
	// read goroutine heartbeat ack yazıyor olabilir. Kapalı channel'a
	// yazmak panic'tir — tüm yazma ve kapatmalar bu kilitten geçer.
	sendMu     sync.Mutex
	sendClosed bool
}

// trySend, event'i send buffer'ına ekler.
// Buffer doluysa veya channel kapatılmışsa false döner, asla bloklamaz.
func (c *Client) trySend(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend, send channel'ını kapatır. İkinci çağrı no-op'tur —
// hem removeClient hem Shutdown aynı client'ı kapatmaya çalışabilir.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// ReadPump, WebSocket bağlantısından gelen mesajları okur ve işler.
//
// Bu fonksiyon goroutine olarak çalışır — bağlantı kapanana kadar döngüde kalır.
// Bağlantı kapandığında Hub'dan çıkış yapar ve kaynakları temizler.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	// SetReadDeadline: Bu süre içinde mesaj gelmezse Read hata verir.
	// Her heartbeat geldiğinde deadline yenilenir.
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline for user %s: %v", c.userID, err)
		return
	}

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			// Bağlantı kapandı veya hata oluştu — ReadPump sonlanır.
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] unexpected close for user %s: %v", c.userID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(rawMessage, &event); err != nil {
			log.Printf("[ws] invalid message from user %s: %v", c.userID, err)
			continue
		}

		c.handleEvent(event)
	}
}

// handleEvent, client'dan gelen event'leri türüne göre işler.
func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		// Heartbeat geldi — deadline'ı yenile ve ack gönder.
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("[ws] failed to set read deadline for user %s: %v", c.userID, err)
			return
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})

	case OpRelayJoin:
		c.handleRelayJoin(event)

	case OpRelayLeave:
		c.handleRelayLeave(event)

	default:
		log.Printf("[ws] unknown op from user %s: %s", c.userID, event.Op)
	}
}

// handleRelayJoin, relay_join event'ini işler.
// Client { op: "relay_join", d: { relay_id: "abc" } } gönderdiğinde
// Hub'ın relay join callback'ini tetikler. Presence kaydı ve izleyici
// sayısı broadcast'i callback tarafında (presence service) yapılır.
func (c *Client) handleRelayJoin(event Event) {
	// event.Data tipi `any` (interface{}), doğrudan cast edemeyiz.
	// JSON'a çevirip tekrar parse etmek en güvenli yöntem.
	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return
	}

	var data RelayJoinData
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		return
	}

	if data.RelayID == "" {
		log.Printf("[ws] relay_join without relay_id from user %s", c.userID)
		return
	}

	if c.hub.onRelayJoin != nil {
		// go func() ile çağrılır — Hub mutex'i ile deadlock önlenir.
		go c.hub.onRelayJoin(c.userID, c.hub.getUserDisplayName(c.userID), data.RelayID)
	}
}

// handleRelayLeave, relay_leave event'ini işler.
func (c *Client) handleRelayLeave(event Event) {
	dataBytes, err := json.Marshal(event.Data)
	if err != nil {
		return
	}

	var data RelayLeaveData
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		return
	}

	if data.RelayID == "" {
		log.Printf("[ws] relay_leave without relay_id from user %s", c.userID)
		return
	}

	if c.hub.onRelayLeave != nil {
		go c.hub.onRelayLeave(c.userID, data.RelayID)
	}
}

// sendEvent, client'a tek bir event gönderir.
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event for user %s: %v", c.userID, err)
		return
	}

	if !c.trySend(data) {
		// Buffer dolu veya client zaten düşürülmüş — bağlantıyı kapat
		log.Printf("[ws] send buffer full for user %s, dropping connection", c.userID)
		c.hub.unregister <- c
	}
}

// WritePump, Hub'dan gelen mesajları WebSocket bağlantısına yazar.
// send channel'dan mesaj bekler ve WS'e yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			// Channel kapatıldı — Hub client'ı çıkardı
			c.writeMessage(websocket.CloseMessage, nil)
			return
		}

		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// writeMessage, WebSocket'e mesaj yazar (mutex ile korunur).
// gorilla/websocket conn'a aynı anda birden fazla yazma YASAK —
// bu yüzden mutex ile koruyoruz.
func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
