package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjuman/hub/config"
	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLiveKitCfg — HS256 imzalama için secret en az 32 byte olmalı.
var testLiveKitCfg = config.LiveKitConfig{
	URL:       "ws://localhost:7880",
	APIKey:    "devkey",
	APISecret: "0123456789abcdef0123456789abcdef",
}

func newMiqaatFixture(t *testing.T, now time.Time) (*miqaatService, *fakeMiqaatRepo, *fakeHub) {
	t.Helper()
	repo := newFakeMiqaatRepo()
	hub := &fakeHub{}
	svc := NewMiqaatService(repo, hub, testLiveKitCfg).(*miqaatService)
	svc.now = func() time.Time { return now }
	return svc, repo, hub
}

func createLiveKitMiqaat(t *testing.T, svc *miqaatService, start, end time.Time) *models.Miqaat {
	t.Helper()
	m, err := svc.Create(context.Background(), &models.CreateMiqaatRequest{
		Name:          "Ashara relay",
		StartDate:     start,
		EndDate:       end,
		SourceType:    string(models.SourceTypeLiveKit),
		AdminUsername: "broadcast-admin",
	})
	require.NoError(t, err)
	return m
}

func TestGetActiveFiltersByWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc, _, _ := newMiqaatFixture(t, now)
	ctx := context.Background()

	// Aktif: dün başladı, yarın bitiyor
	createLiveKitMiqaat(t, svc, now.Add(-24*time.Hour), now.Add(24*time.Hour))
	// Gelecek: yarın başlıyor
	createLiveKitMiqaat(t, svc, now.Add(24*time.Hour), now.Add(48*time.Hour))
	// Geçmiş ama bitiş + 24 saat penceresi içinde → hala aktif
	createLiveKitMiqaat(t, svc, now.Add(-72*time.Hour), now.Add(-12*time.Hour))
	// Geçmiş, pencere de kapandı
	createLiveKitMiqaat(t, svc, now.Add(-96*time.Hour), now.Add(-48*time.Hour))

	active, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestViewerTokenRequiresLiveKitSource(t *testing.T) {
	now := time.Now()
	svc, _, _ := newMiqaatFixture(t, now)
	ctx := context.Background()

	m, err := svc.Create(ctx, &models.CreateMiqaatRequest{
		Name:          "Youtube waaz",
		StartDate:     now.Add(-time.Hour),
		EndDate:       now.Add(time.Hour),
		SourceType:    string(models.SourceTypeYoutube),
		YoutubeID:     "dQw4w9WgXcQ",
		AdminUsername: "broadcast-admin",
	})
	require.NoError(t, err)

	_, err = svc.ViewerToken(ctx, m.ID, "u1", "member")
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestViewerTokenRejectsInactiveMiqaat(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc, _, _ := newMiqaatFixture(t, now)

	m := createLiveKitMiqaat(t, svc, now.Add(48*time.Hour), now.Add(72*time.Hour))

	_, err := svc.ViewerToken(context.Background(), m.ID, "u1", "member")
	assert.ErrorIs(t, err, pkg.ErrForbidden)
}

func TestViewerTokenIssuedForActiveMiqaat(t *testing.T) {
	now := time.Now()
	svc, _, _ := newMiqaatFixture(t, now)

	m := createLiveKitMiqaat(t, svc, now.Add(-time.Hour), now.Add(time.Hour))

	resp, err := svc.ViewerToken(context.Background(), m.ID, "u1", "member")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, testLiveKitCfg.URL, resp.URL)
	assert.Equal(t, m.ID, resp.MiqaatID)
}

func TestViewerTokenUnknownMiqaat(t *testing.T) {
	svc, _, _ := newMiqaatFixture(t, time.Now())

	_, err := svc.ViewerToken(context.Background(), "ghost", "u1", "member")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestCreateBroadcastsRelayCreate(t *testing.T) {
	now := time.Now()
	svc, _, hub := newMiqaatFixture(t, now)

	createLiveKitMiqaat(t, svc, now, now.Add(time.Hour))

	assert.Len(t, hub.eventsByOp(ws.OpRelayCreate), 1)
}

func TestUpdatePreservesIDAndCreatedAt(t *testing.T) {
	now := time.Now()
	svc, repo, hub := newMiqaatFixture(t, now)
	ctx := context.Background()

	m := createLiveKitMiqaat(t, svc, now, now.Add(time.Hour))

	updated, err := svc.Update(ctx, m.ID, &models.CreateMiqaatRequest{
		Name:          "Renamed relay",
		StartDate:     now,
		EndDate:       now.Add(2 * time.Hour),
		SourceType:    string(models.SourceTypeLiveKit),
		AdminUsername: "broadcast-admin",
	})
	require.NoError(t, err)

	assert.Equal(t, m.ID, updated.ID)
	assert.Equal(t, m.CreatedAt, updated.CreatedAt)
	assert.Len(t, hub.eventsByOp(ws.OpRelayUpdate), 1)

	stored, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed relay", stored.Name)
}

func TestDeleteBroadcastsRelayDelete(t *testing.T) {
	now := time.Now()
	svc, _, hub := newMiqaatFixture(t, now)
	ctx := context.Background()

	m := createLiveKitMiqaat(t, svc, now, now.Add(time.Hour))

	require.NoError(t, svc.Delete(ctx, m.ID))
	assert.Len(t, hub.eventsByOp(ws.OpRelayDelete), 1)

	_, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, m.ID), pkg.ErrNotFound)
}
