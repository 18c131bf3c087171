package services

import (
	"context"
	"testing"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMediaFixture(t *testing.T) (MediaService, *fakeMediaRepo, *fakeHub) {
	t.Helper()
	repo := newFakeMediaRepo()
	hub := &fakeHub{}
	svc := NewMediaService(repo, hub, t.TempDir(), 10*1024*1024)
	return svc, repo, hub
}

func seedMediaItem(t *testing.T, repo *fakeMediaRepo, uploaderID string) *models.MediaItem {
	t.Helper()
	item := &models.MediaItem{
		Title:      "Majlis photo",
		Filename:   "majlis.jpg",
		FileURL:    "/api/uploads/deadbeef_majlis.jpg",
		UploaderID: uploaderID,
	}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func TestRegisterDownloadIncrementsByOne(t *testing.T) {
	svc, repo, _ := newMediaFixture(t)
	ctx := context.Background()

	item := seedMediaItem(t, repo, "u1")

	first, err := svc.RegisterDownload(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.DownloadCount)
	assert.Equal(t, item.FileURL, first.FileURL)

	second, err := svc.RegisterDownload(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.DownloadCount)
}

func TestRegisterDownloadUnknownMedia(t *testing.T) {
	svc, _, _ := newMediaFixture(t)

	_, err := svc.RegisterDownload(context.Background(), "ghost")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestDeleteRequiresUploaderOrAdmin(t *testing.T) {
	svc, repo, hub := newMediaFixture(t)
	ctx := context.Background()

	item := seedMediaItem(t, repo, "uploader-1")

	// Başkası silemez
	err := svc.Delete(ctx, item.ID, "other-user", false)
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	// Yükleyen silebilir
	require.NoError(t, svc.Delete(ctx, item.ID, "uploader-1", false))
	assert.Len(t, hub.eventsByOp(ws.OpMediaDelete), 1)

	// Admin, yükleyen olmasa da silebilir
	other := seedMediaItem(t, repo, "uploader-1")
	require.NoError(t, svc.Delete(ctx, other.ID, "admin-user", true))
}
