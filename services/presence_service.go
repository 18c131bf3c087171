// Package services — Yayın izleyici (presence) takibi.
//
// İzleyici durumu tamamen memory'de tutulur — DB'ye yazılmaz.
// Server yeniden başlarsa sayılar sıfırlanır; client'lar WS ile tekrar
// join olduğunda durum kendini yeniden kurar.
package services

import (
	"log"
	"sync"
	"time"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/ws"
)

// PresenceService, yayın başına izleyici kümesini yönetir.
//
// Invariant'lar:
//   - Join idempotent'tir: aynı kullanıcı ikinci kez join olursa sadece
//     JoinedAt tazelenir, sayı artmaz
//   - Broadcast sadece NET değişimde yapılır — sayı aynı kalıyorsa sessiz
//   - Subscribe, kayıt anında mevcut sayıyı senkron olarak iletir
type PresenceService interface {
	// Join, kullanıcıyı yayının izleyici kümesine ekler.
	Join(userID, displayName, relayID string)
	// Leave, kullanıcıyı yayından çıkarır. Kümede yoksa no-op.
	Leave(userID, relayID string)
	// Count, yayının anlık izleyici sayısını döner.
	Count(relayID string) int
	// Viewers, yayının izleyici listesini döner (admin görünümü).
	Viewers(relayID string) []models.RelayViewer
	// SubscribeCount, yayının izleyici sayısı değiştikçe fn'i çağırır.
	// Kayıt anında mevcut sayı senkron iletilir. Dönen fonksiyon aboneliği iptal eder.
	SubscribeCount(relayID string, fn func(count int)) (cancel func())
	// DisconnectUser, kullanıcıyı TÜM yayınlardan çıkarır.
	// WS bağlantısı tamamen koptuğunda hub callback'i çağırır.
	DisconnectUser(userID string)
	// Shutdown, tüm izleyici kümelerini boşaltır ve sayıları sıfır olarak duyurur.
	Shutdown()
}

type presenceService struct {
	hub ws.EventPublisher

	mu sync.Mutex
	// viewers: relayID → userID → viewer kaydı
	viewers map[string]map[string]*models.RelayViewer
	// subs: relayID → subscriber ID → callback
	subs   map[string]map[int]func(int)
	nextID int
}

// NewPresenceService, constructor.
func NewPresenceService(hub ws.EventPublisher) PresenceService {
	return &presenceService{
		hub:     hub,
		viewers: make(map[string]map[string]*models.RelayViewer),
		subs:    make(map[string]map[int]func(int)),
	}
}

func (s *presenceService) Join(userID, displayName, relayID string) {
	s.mu.Lock()

	set, ok := s.viewers[relayID]
	if !ok {
		set = make(map[string]*models.RelayViewer)
		s.viewers[relayID] = set
	}

	if existing, ok := set[userID]; ok {
		// İkinci join (sekme yenileme vb.) — sadece zamanı tazele, sayı değişmez.
		existing.JoinedAt = time.Now()
		s.mu.Unlock()
		return
	}

	set[userID] = &models.RelayViewer{
		UserID:      userID,
		DisplayName: displayName,
		JoinedAt:    time.Now(),
	}
	count := len(set)

	s.mu.Unlock()

	log.Printf("[presence] user %s joined relay %s (viewers: %d)", userID, relayID, count)
	s.notify(relayID, count)
}

func (s *presenceService) Leave(userID, relayID string) {
	s.mu.Lock()

	set, ok := s.viewers[relayID]
	if !ok {
		s.mu.Unlock()
		return
	}
	if _, ok := set[userID]; !ok {
		s.mu.Unlock()
		return
	}

	delete(set, userID)
	count := len(set)
	if count == 0 {
		delete(s.viewers, relayID)
	}

	s.mu.Unlock()

	log.Printf("[presence] user %s left relay %s (viewers: %d)", userID, relayID, count)
	s.notify(relayID, count)
}

func (s *presenceService) Count(relayID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers[relayID])
}

func (s *presenceService) Viewers(relayID string) []models.RelayViewer {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.viewers[relayID]
	result := make([]models.RelayViewer, 0, len(set))
	for _, v := range set {
		result = append(result, *v)
	}
	return result
}

func (s *presenceService) SubscribeCount(relayID string, fn func(count int)) (cancel func()) {
	s.mu.Lock()

	if _, ok := s.subs[relayID]; !ok {
		s.subs[relayID] = make(map[int]func(int))
	}
	id := s.nextID
	s.nextID++
	s.subs[relayID][id] = fn
	current := len(s.viewers[relayID])

	s.mu.Unlock()

	// İlk değer senkron iletilir — abone "sayı gelene kadar boş ekran" görmez.
	safeNotify(fn, current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if m, ok := s.subs[relayID]; ok {
			delete(m, id)
			if len(m) == 0 {
				delete(s.subs, relayID)
			}
		}
	}
}

func (s *presenceService) DisconnectUser(userID string) {
	s.mu.Lock()

	// Kullanıcının izlediği tüm yayınları bul ve çıkar
	type change struct {
		relayID string
		count   int
	}
	var changes []change

	for relayID, set := range s.viewers {
		if _, ok := set[userID]; ok {
			delete(set, userID)
			changes = append(changes, change{relayID: relayID, count: len(set)})
			if len(set) == 0 {
				delete(s.viewers, relayID)
			}
		}
	}

	s.mu.Unlock()

	for _, ch := range changes {
		log.Printf("[presence] user %s dropped from relay %s (viewers: %d)", userID, ch.relayID, ch.count)
		s.notify(ch.relayID, ch.count)
	}
}

func (s *presenceService) Shutdown() {
	s.mu.Lock()

	relayIDs := make([]string, 0, len(s.viewers))
	for relayID := range s.viewers {
		relayIDs = append(relayIDs, relayID)
	}
	s.viewers = make(map[string]map[string]*models.RelayViewer)

	s.mu.Unlock()

	for _, relayID := range relayIDs {
		s.notify(relayID, 0)
	}
	log.Println("[presence] shut down, all viewer sets cleared")
}

// notify, izleyici sayısı değişimini hem WS broadcast'i hem abonelerle paylaşır.
// Mutex TUTULMADAN çağrılmalı — abone callback'i tekrar servise girebilir.
func (s *presenceService) notify(relayID string, count int) {
	s.hub.BroadcastToAll(ws.Event{
		Op:   ws.OpViewerCount,
		Data: ws.ViewerCountData{RelayID: relayID, Count: count},
	})

	s.mu.Lock()
	fns := make([]func(int), 0, len(s.subs[relayID]))
	for _, fn := range s.subs[relayID] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		safeNotify(fn, count)
	}
}

// safeNotify, abone callback'indeki panic'in servisi çökertmesini engeller.
func safeNotify(fn func(int), count int) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[presence] subscriber panicked: %v", p)
		}
	}()
	fn(count)
}
