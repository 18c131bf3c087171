package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anjuman/hub/models"
	"github.com/anjuman/hub/pkg"
	"github.com/anjuman/hub/services"
)

// AdminHandler, platform admin paneli endpoint'lerini yönetir.
// Tüm route'lar platform admin middleware'inin arkasındadır.
type AdminHandler struct {
	userAdminService services.UserAdminService
}

// NewAdminHandler, constructor.
func NewAdminHandler(userAdminService services.UserAdminService) *AdminHandler {
	return &AdminHandler{userAdminService: userAdminService}
}

// ListUsers godoc
// GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userAdminService.ListUsers(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, users)
}

// SetRestricted godoc
// PATCH /api/admin/users/{id}/restrict
// Body: { "restricted": true }
// Kısıtlı kullanıcı galeriye medya yükleyemez.
func (h *AdminHandler) SetRestricted(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Restricted bool `json:"restricted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userAdminService.SetRestricted(r.Context(), id, req.Restricted); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "user updated"})
}

// SetPlatformAdmin godoc
// PATCH /api/admin/users/{id}/admin
// Body: { "is_admin": true }
// Admin kendi yetkisini kaldıramaz.
func (h *AdminHandler) SetPlatformAdmin(w http.ResponseWriter, r *http.Request) {
	requester, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	id := r.PathValue("id")

	var req struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userAdminService.SetPlatformAdmin(r.Context(), requester.ID, id, req.IsAdmin); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "user updated"})
}

// DeleteUser godoc
// DELETE /api/admin/users/{id}
// Admin kendi hesabını silemez.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	requester, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	id := r.PathValue("id")

	if err := h.userAdminService.DeleteUser(r.Context(), requester.ID, id); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
