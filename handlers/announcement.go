package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/services"
)

// AnnouncementHandler, duyuru endpoint'lerini yöneten struct.
type AnnouncementHandler struct {
	announcementService services.AnnouncementService
}

// NewAnnouncementHandler, constructor.
func NewAnnouncementHandler(announcementService services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

// List godoc
// GET /api/announcements?local_read=id1,id2
//
// local_read: Client'ın henüz server'a senkronize etmediği okunma işaretleri.
// Dönen listede is_read, server kaydı VEYA local işaret varsa true'dur.
// Admin olmayan kullanıcılar scheduled duyuruları görmez.
func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	localRead := parseLocalReadParam(r.URL.Query().Get("local_read"))

	announcements, err := h.announcementService.List(r.Context(), user.ID, user.IsPlatformAdmin, localRead)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, announcements)
}

// Create godoc
// POST /api/announcements (admin)
// scheduled_at gelecekteyse duyuru zamanlanır, hemen yayınlanmaz.
func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.CreateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	announcement, err := h.announcementService.Create(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, announcement)
}

// Delete godoc
// DELETE /api/announcements/{id} (admin)
func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.announcementService.Delete(r.Context(), id); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "announcement deleted"})
}

// MarkRead godoc
// POST /api/announcements/{id}/read
// Body: { "local_read_ids": ["...", "..."] } (opsiyonel)
//
// Yanıt, client'ın saklaması gereken BİRLEŞİK okunma kümesidir.
// Server yazması başarısız olsa bile 200 döner — local işaret kaybolmaz.
func (h *AnnouncementHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	id := r.PathValue("id")

	// Body opsiyonel — boş body'de local küme boş kabul edilir
	var req models.MarkReadRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	merged, err := h.announcementService.MarkRead(r.Context(), id, user.ID, req.LocalReadSet())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	readIDs := make([]string, 0, len(merged))
	for announcementID := range merged {
		readIDs = append(readIDs, announcementID)
	}

	pkg.JSON(w, http.StatusOK, map[string]any{"read_ids": readIDs})
}

// MarkAllRead godoc
// POST /api/announcements/read-all
// Yanıt: { "marked": N } — başarıyla işaretlenen kayıt sayısı.
func (h *AnnouncementHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	n, err := h.announcementService.MarkAllRead(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]int{"marked": n})
}

// UnreadCount godoc
// GET /api/announcements/unread-count
func (h *AnnouncementHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	count, err := h.announcementService.UnreadCount(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]int{"count": count})
}

// Readers godoc
// GET /api/announcements/{id}/readers (admin)
// Duyuruyu okuyan kullanıcıların listesi.
func (h *AnnouncementHandler) Readers(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	readers, err := h.announcementService.Readers(r.Context(), id)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, readers)
}

// parseLocalReadParam, virgülle ayrılmış ID listesini set'e çevirir.
func parseLocalReadParam(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	set := make(map[string]bool)
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			set[id] = true
		}
	}
	return set
}
