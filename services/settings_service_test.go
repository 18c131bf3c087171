package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsDefaultsWhenUnset(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, &fakeHub{}, time.Minute)

	s, err := svc.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, s.WebViewURL)
	assert.Empty(t, s.LogoURL)
	assert.False(t, s.UpdateLogoOnLogin)
}

func TestGetServesFromCacheWithinTTL(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, &fakeHub{}, time.Minute)
	ctx := context.Background()

	_, err := svc.Get(ctx, false)
	require.NoError(t, err)
	_, err = svc.Get(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.fetches(), "second read must hit the cache")
}

func TestGetForceBypassesCache(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, &fakeHub{}, time.Minute)
	ctx := context.Background()

	_, err := svc.Get(ctx, false)
	require.NoError(t, err)
	_, err = svc.Get(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.fetches())
}

func TestSaveCoercesLogoFlagsWhenLogoEmpty(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, &fakeHub{}, time.Minute)

	s, err := svc.Save(context.Background(), &models.UpdateSettingsRequest{
		LogoURL:                   "", // logo yok
		UpdateLogoOnLogin:         true,
		UpdateLogoOnSidebar:       true,
		UpdateLogoOnProfileAvatar: true,
	})
	require.NoError(t, err)

	assert.False(t, s.UpdateLogoOnLogin)
	assert.False(t, s.UpdateLogoOnSidebar)
	assert.False(t, s.UpdateLogoOnProfileAvatar)
}

func TestSaveKeepsLogoFlagsWhenLogoSet(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, &fakeHub{}, time.Minute)

	s, err := svc.Save(context.Background(), &models.UpdateSettingsRequest{
		LogoURL:           "https://cdn.example.org/logo.png",
		UpdateLogoOnLogin: true,
	})
	require.NoError(t, err)
	assert.True(t, s.UpdateLogoOnLogin)
}

func TestSaveInvalidatesCacheAndBroadcasts(t *testing.T) {
	repo := &fakeSettingsRepo{}
	hub := &fakeHub{}
	svc := NewSettingsService(repo, hub, time.Minute)
	ctx := context.Background()

	_, err := svc.Get(ctx, false) // cache'i doldur
	require.NoError(t, err)

	_, err = svc.Save(ctx, &models.UpdateSettingsRequest{WebViewURL: "https://anjuman.example.org"})
	require.NoError(t, err)

	assert.Len(t, hub.eventsByOp(ws.OpSettingsUpdate), 1)

	// Save sonrası Get taze değeri DB'den okumalı
	s, err := svc.Get(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "https://anjuman.example.org", s.WebViewURL)
	assert.Equal(t, 2, repo.fetches())
}

func TestGetFailureKeepsServingCachedValue(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, &fakeHub{}, time.Millisecond)
	ctx := context.Background()

	_, err := svc.Save(ctx, &models.UpdateSettingsRequest{WebViewURL: "https://ok.example.org"})
	require.NoError(t, err)

	s, err := svc.Get(ctx, false)
	require.NoError(t, err)
	require.Equal(t, "https://ok.example.org", s.WebViewURL)

	// TTL dolsun, DB de hata versin
	time.Sleep(5 * time.Millisecond)
	repo.failGet = true

	_, err = svc.Get(ctx, false)
	assert.Error(t, err, "expired cache with failing fetch surfaces the error")

	// Hata cache'i ZEHİRLEMEZ — DB düzelince taze değer döner
	repo.failGet = false
	s, err = svc.Get(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "https://ok.example.org", s.WebViewURL)
}
