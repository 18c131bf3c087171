package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/services"
)

// SettingsHandler, global ayar endpoint'lerini yönetir.
type SettingsHandler struct {
	settingsService services.SettingsService
}

// NewSettingsHandler, constructor.
func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get godoc
// GET /api/settings?force=true
// force=true cache'i atlayıp DB'den taze değer okur (admin panelindeki yenile).
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	settings, err := h.settingsService.Get(r.Context(), force)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, settings)
}

// Save godoc
// PUT /api/settings (admin)
// Kaydedilen değer normalize edilip tüm client'lara broadcast edilir.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.settingsService.Save(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, settings)
}
