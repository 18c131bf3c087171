package handlers

import (
	"net/http"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/services"
)

// MediaHandler, galeri endpoint'lerini yönetir.
type MediaHandler struct {
	mediaService services.MediaService
	maxSize      int64
}

// NewMediaHandler, constructor.
func NewMediaHandler(mediaService services.MediaService, maxSize int64) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, maxSize: maxSize}
}

// GetAll godoc
// GET /api/media
// Galerideki tüm medyayı yükleyen adı ve indirme sayısıyla döner.
func (h *MediaHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.mediaService.GetAll(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, items)
}

// Upload godoc
// POST /api/media (multipart/form-data)
// Form alanları: file (zorunlu), title (opsiyonel — boşsa dosya adı kullanılır)
//
// Kısıtlı (restricted) kullanıcılar middleware'de engellenir, buraya ulaşamaz.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	// ParseMultipartForm: maxSize'a kadar memory'de tutar, fazlası temp dosyaya gider
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	title := r.FormValue("title")

	item, err := h.mediaService.Upload(r.Context(), user.ID, title, file, header)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, item)
}

// Delete godoc
// DELETE /api/media/{id}
// Sadece yükleyen veya platform admin silebilir — kontrol service'te.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	id := r.PathValue("id")

	if err := h.mediaService.Delete(r.Context(), id, user.ID, user.IsPlatformAdmin); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "media deleted"})
}

// RegisterDownload godoc
// POST /api/media/{id}/download
// İndirme sayacını artırır; yanıt dosya URL'i ve güncel sayıdır.
func (h *MediaHandler) RegisterDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := h.mediaService.RegisterDownload(r.Context(), id)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]any{
		"file_url":       item.FileURL,
		"download_count": item.DownloadCount,
	})
}
