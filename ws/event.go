// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı event dağıtımını sağlar.
//
// Mimari:
// - Hub: Tüm bağlantıları yöneten merkezi yapı (Observer pattern)
// - Client: Her WebSocket bağlantısını temsil eder
// - Event: Client-server arası iletilen mesaj formatı
//
// Event akışı:
// 1. Admin duyuru yayınlar → HTTP POST → Service → DB kayıt
// 2. Service, Hub'ın BroadcastToAll metodunu çağırır
// 3. Hub, event'i tüm bağlı client'lara iletir
// 4. Her client'ın WritePump'ı event'i WebSocket'e yazar
// 5. Frontend event'i alır ve store'u günceller
package ws

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Op (operation): Event türü — "announcement_create", "heartbeat" vb.
// Data: Event'e özgü payload — duyuru objesi, izleyici sayısı vb.
// Seq (sequence number): Her outbound event'e verilen artan sayı.
//   Frontend eksik event tespit etmek için seq'i takip eder.
//   Örnek: seq 5'ten sonra seq 7 gelirse, 6 kaybolmuş demektir.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat  = "heartbeat"   // Client her 30sn'de gönderir — "hâlâ bağlıyım" sinyali
	OpRelayJoin  = "relay_join"  // Kullanıcı bir yayını izlemeye başladı
	OpRelayLeave = "relay_leave" // Kullanıcı yayından ayrıldı
)

// Server → Client operasyonları
const (
	OpReady        = "ready"         // Bağlantı kurulduğunda ilk gönderilen
	OpHeartbeatAck = "heartbeat_ack" // Heartbeat'e yanıt — "seni duydum"

	OpAnnouncementCreate = "announcement_create" // Yeni duyuru yayınlandı
	OpAnnouncementDelete = "announcement_delete" // Duyuru silindi

	OpRelayCreate = "relay_create" // Yeni miqaat oluşturuldu
	OpRelayUpdate = "relay_update" // Miqaat güncellendi
	OpRelayDelete = "relay_delete" // Miqaat silindi
	OpViewerCount = "viewer_count" // Bir yayının izleyici sayısı değişti

	OpMediaCreate = "media_create" // Galeriye yeni medya eklendi
	OpMediaDelete = "media_delete" // Medya silindi

	OpSettingsUpdate = "settings_update" // Global ayarlar değişti
)

// ReadyData, bağlantı kurulduğunda client'a gönderilen ilk event'in payload'ı.
// Frontend online kullanıcıları Set'e atar (presence indicator için).
type ReadyData struct {
	OnlineUserIDs []string `json:"online_user_ids"`
}

// RelayJoinData, relay_join event'inin payload'ı (Client → Server).
type RelayJoinData struct {
	RelayID string `json:"relay_id"`
}

// RelayLeaveData, relay_leave event'inin payload'ı (Client → Server).
type RelayLeaveData struct {
	RelayID string `json:"relay_id"`
}

// ViewerCountData, viewer_count event'inin payload'ı (Server → Client).
// Sayı DEĞİŞTİĞİNDE broadcast edilir — her join/leave'de değil.
type ViewerCountData struct {
	RelayID string `json:"relay_id"`
	Count   int    `json:"count"`
}

// DeletedData, *_delete event'lerinin ortak payload'ı.
type DeletedData struct {
	ID string `json:"id"`
}
