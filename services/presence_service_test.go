package services

import (
	"testing"

	"github.com/anjuman/hub/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinIsIdempotent(t *testing.T) {
	hub := &fakeHub{}
	svc := NewPresenceService(hub)

	svc.Join("u1", "Taher", "relay-1")
	svc.Join("u1", "Taher", "relay-1") // sekme yenileme — sayı artmamalı

	assert.Equal(t, 1, svc.Count("relay-1"))

	// Net değişim tek: 0 → 1. İkinci join broadcast üretmez.
	assert.Len(t, hub.eventsByOp(ws.OpViewerCount), 1)
}

func TestLeaveUnknownUserIsNoop(t *testing.T) {
	hub := &fakeHub{}
	svc := NewPresenceService(hub)

	svc.Leave("ghost", "relay-1")

	assert.Zero(t, svc.Count("relay-1"))
	assert.Empty(t, hub.eventsByOp(ws.OpViewerCount))
}

func TestSubscribeDeliversInitialCountSynchronously(t *testing.T) {
	svc := NewPresenceService(&fakeHub{})
	svc.Join("u1", "A", "relay-1")
	svc.Join("u2", "B", "relay-1")

	var got []int
	cancel := svc.SubscribeCount("relay-1", func(count int) {
		got = append(got, count)
	})
	defer cancel()

	// Kayıt anında mevcut değer senkron gelmiş olmalı
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0])

	svc.Join("u3", "C", "relay-1")
	assert.Equal(t, []int{2, 3}, got)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	svc := NewPresenceService(&fakeHub{})

	var a, b []int
	cancelA := svc.SubscribeCount("relay-1", func(c int) { a = append(a, c) })
	cancelB := svc.SubscribeCount("relay-1", func(c int) { b = append(b, c) })

	cancelA()
	svc.Join("u1", "A", "relay-1")

	assert.Equal(t, []int{0}, a, "cancelled subscriber must not receive updates")
	assert.Equal(t, []int{0, 1}, b)
	cancelB()
}

func TestPanickingSubscriberDoesNotBreakOthers(t *testing.T) {
	svc := NewPresenceService(&fakeHub{})

	cancelBad := svc.SubscribeCount("relay-1", func(c int) {
		if c > 0 {
			panic("subscriber bug")
		}
	})
	defer cancelBad()

	var got []int
	cancel := svc.SubscribeCount("relay-1", func(c int) { got = append(got, c) })
	defer cancel()

	assert.NotPanics(t, func() {
		svc.Join("u1", "A", "relay-1")
	})
	assert.Contains(t, got, 1)
}

func TestDisconnectUserDropsAllRelays(t *testing.T) {
	hub := &fakeHub{}
	svc := NewPresenceService(hub)

	svc.Join("u1", "A", "relay-1")
	svc.Join("u1", "A", "relay-2")
	svc.Join("u2", "B", "relay-1")

	svc.DisconnectUser("u1")

	assert.Equal(t, 1, svc.Count("relay-1"))
	assert.Zero(t, svc.Count("relay-2"))
}

func TestViewersReturnsSnapshot(t *testing.T) {
	svc := NewPresenceService(&fakeHub{})
	svc.Join("u1", "Amatullah", "relay-1")

	viewers := svc.Viewers("relay-1")
	require.Len(t, viewers, 1)
	assert.Equal(t, "u1", viewers[0].UserID)
	assert.Equal(t, "Amatullah", viewers[0].DisplayName)
	assert.False(t, viewers[0].JoinedAt.IsZero())
}

func TestShutdownClearsAndAnnouncesZero(t *testing.T) {
	hub := &fakeHub{}
	svc := NewPresenceService(hub)

	svc.Join("u1", "A", "relay-1")
	svc.Join("u2", "B", "relay-2")

	svc.Shutdown()

	assert.Zero(t, svc.Count("relay-1"))
	assert.Zero(t, svc.Count("relay-2"))

	// Her relay için sıfır sayısı duyurulur
	zeroEvents := 0
	for _, e := range hub.eventsByOp(ws.OpViewerCount) {
		if data, ok := e.Data.(ws.ViewerCountData); ok && data.Count == 0 {
			zeroEvents++
		}
	}
	assert.Equal(t, 2, zeroEvents)
}
