package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiqaatActiveWindow(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)
	m := &Miqaat{StartDate: start, EndDate: end}

	// başlangıçtan önce
	assert.False(t, m.IsActiveAt(start.Add(-time.Second)))

	// tam başlangıç anı dahil
	assert.True(t, m.IsActiveAt(start))

	// pencere içinde
	assert.True(t, m.IsActiveAt(end))

	// bitişten sonraki 24 saat hâlâ aktif
	assert.True(t, m.IsActiveAt(end.Add(23*time.Hour+59*time.Minute)))

	// end + 24h tam anı artık aktif değil
	assert.False(t, m.IsActiveAt(end.Add(24*time.Hour)))
}

func TestCreateMiqaatRequestValidate(t *testing.T) {
	base := CreateMiqaatRequest{
		Name:          "Ashara 1447",
		StartDate:     time.Now(),
		EndDate:       time.Now().Add(48 * time.Hour),
		SourceType:    "youtube",
		YoutubeID:     "dQw4w9WgXcQ",
		AdminUsername: "relay_admin",
	}
	require.NoError(t, base.Validate())

	t.Run("youtube requires youtube_id", func(t *testing.T) {
		r := base
		r.YoutubeID = "  "
		assert.Error(t, r.Validate())
	})

	t.Run("iframe requires iframe_code", func(t *testing.T) {
		r := base
		r.SourceType = "iframe"
		r.IframeCode = ""
		assert.Error(t, r.Validate())
	})

	t.Run("livekit needs no extra field", func(t *testing.T) {
		r := base
		r.SourceType = "livekit"
		r.YoutubeID = ""
		assert.NoError(t, r.Validate())
	})

	t.Run("unknown source type rejected", func(t *testing.T) {
		r := base
		r.SourceType = "twitch"
		assert.Error(t, r.Validate())
	})

	t.Run("end before start rejected", func(t *testing.T) {
		r := base
		r.EndDate = r.StartDate.Add(-time.Hour)
		assert.Error(t, r.Validate())
	})
}
