package visitor

import (
	"net/http"

	"github.com/tickethub/storefront/lib/myuuid"
)

const cookieName = "tickethub_visitor"

// UIDFromRequest identifies the browser across requests. A first-time
// visitor gets a fresh uid in a long-lived cookie.
func UIDFromRequest(w http.ResponseWriter, r *http.Request, uuider myuuid.UUIDer) string {
	cookie, err := r.Cookie(cookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	uid := uuider.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    uid,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 180,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return uid
}
