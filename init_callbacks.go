// Package main — WebSocket Hub callback wire-up.
//
// registerHubCallbacks, Hub'ın relay presence callback'lerini ayarlar.
//
// Bu callback'ler neden burada (main package'da)?
// Hub ws paketinde yaşıyor, ama izleyici takibi service katmanında.
// Hub'ın service'lere bağımlı olmasını istemiyoruz (Dependency Inversion).
// main package wire-up noktasıdır — tüm katmanları birbirine bağlar.
//
// Callback'ler Hub.Run() goroutine'inden ayrı goroutine'de çalışır
// (handleEvent/removeClient içinde `go callback()` ile çağrılır),
// böylece Hub'ın mutex Lock'u ile BroadcastToAll'ın RLock'u çakışmaz.
package main

import (
	"github.com/anjuman/hub/services"
	"github.com/anjuman/hub/ws"
)

// registerHubCallbacks, tüm Hub callback'lerini register eder.
func registerHubCallbacks(hub *ws.Hub, presenceService services.PresenceService) {
	// Client "relay_join" event'i gönderdiğinde izleyici kümesine eklenir.
	// Join idempotent'tir — sekme yenileme sayıyı artırmaz.
	hub.OnRelayJoin(func(userID, displayName, relayID string) {
		presenceService.Join(userID, displayName, relayID)
	})

	hub.OnRelayLeave(func(userID, relayID string) {
		presenceService.Leave(userID, relayID)
	})

	// Kullanıcının SON WS bağlantısı koptuğunda tüm yayınlardan düşürülür.
	// Explicit relay_leave göndermeden sekmeyi kapatan kullanıcı
	// izleyici sayısını şişirmez.
	hub.OnUserFullyDisconnected(func(userID string) {
		presenceService.DisconnectUser(userID)
	})
}
