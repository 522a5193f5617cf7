package webui

import (
	"net/http"
	"strings"

	"github.com/bornholm/folio/internal/core/model"
	httpCtx "github.com/bornholm/folio/internal/http/context"
)

// getLoginPage asks anonymous viewers for their basic auth credentials,
// then sends them back to the page they came from.
func (h *Handler) getLoginPage(w http.ResponseWriter, r *http.Request) {
	user := httpCtx.User(r.Context())

	if user == nil || model.IsAnonymous(user) {
		w.Header().Set("WWW-Authenticate", `Basic realm="folio", charset="UTF-8"`)
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	next := r.URL.Query().Get("next")
	// Only local redirections are allowed
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = h.routes.Home()
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}
