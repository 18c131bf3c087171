package middleware

import (
	"net/http"

	"github.com/anjuman/hub/pkg"
)

// BlockRestricted, kısıtlı kullanıcıların erişemediği endpoint'leri korur
// (şu an tek kullanım: galeriye medya yükleme).
// AuthMiddleware.Require'dan SONRA zincirlenmelidir.
func BlockRestricted(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		if user.IsRestricted {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "your account is restricted from this action")
			return
		}

		next(w, r)
	}
}
