package middleware

import (
	"net/http"

	"github.com/anjuman/hub/pkg"
)

// RequirePlatformAdmin, sadece platform adminlerin erişebildiği endpoint'leri korur.
// AuthMiddleware.Require'dan SONRA zincirlenmelidir — context'te user bekler.
func RequirePlatformAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		if !user.IsPlatformAdmin {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "platform admin access required")
			return
		}

		next(w, r)
	}
}
