package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/services"
)

// MiqaatHandler, miqaat (canlı yayın etkinliği) endpoint'lerini yönetir.
type MiqaatHandler struct {
	miqaatService   services.MiqaatService
	presenceService services.PresenceService
}

// NewMiqaatHandler, constructor.
func NewMiqaatHandler(
	miqaatService services.MiqaatService,
	presenceService services.PresenceService,
) *MiqaatHandler {
	return &MiqaatHandler{
		miqaatService:   miqaatService,
		presenceService: presenceService,
	}
}

// GetAll godoc
// GET /api/miqaats (admin)
// Tüm miqaatları döner — geçmiş ve gelecek dahil.
func (h *MiqaatHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	miqaats, err := h.miqaatService.GetAll(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, miqaats)
}

// GetActive godoc
// GET /api/miqaats/active
// Şu an izlenebilir penceredeki miqaatlar. Üyelerin gördüğü liste budur.
func (h *MiqaatHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	miqaats, err := h.miqaatService.GetActive(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, miqaats)
}

// Create godoc
// POST /api/miqaats (admin)
func (h *MiqaatHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMiqaatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	miqaat, err := h.miqaatService.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, miqaat)
}

// Update godoc
// PUT /api/miqaats/{id} (admin)
func (h *MiqaatHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.CreateMiqaatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	miqaat, err := h.miqaatService.Update(r.Context(), id, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, miqaat)
}

// Delete godoc
// DELETE /api/miqaats/{id} (admin)
func (h *MiqaatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.miqaatService.Delete(r.Context(), id); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "miqaat deleted"})
}

// ViewerToken godoc
// POST /api/miqaats/{id}/viewer-token
//
// LiveKit kaynaklı miqaat için bağlantı token'ı üretir.
// Publish yetkisi sadece miqaat'in yayın adminine verilir — herkes izleyici.
func (h *MiqaatHandler) ViewerToken(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	id := r.PathValue("id")

	resp, err := h.miqaatService.ViewerToken(r.Context(), id, user.ID, user.Username)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, resp)
}

// Viewers godoc
// GET /api/miqaats/{id}/viewers (admin)
// Yayının anlık izleyici listesi — memory'deki presence kümesinden okunur.
func (h *MiqaatHandler) Viewers(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	viewers := h.presenceService.Viewers(id)

	pkg.JSON(w, http.StatusOK, map[string]any{
		"count":   len(viewers),
		"viewers": viewers,
	})
}
