package webui

import (
	"net/http"
	"strings"

	"github.com/bornholm/folio/internal/core/service"
	"github.com/bornholm/folio/internal/http/handler/webui/viewer"
	"github.com/bornholm/folio/internal/http/route"
	"github.com/gorilla/sessions"
)

type Handler struct {
	manager *service.ViewerManager
	routes  *route.Routes
	mux     *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func NewHandler(manager *service.ViewerManager, routes *route.Routes, sessionStore sessions.Store, purchaseMiddleware func(http.Handler) http.Handler) *Handler {
	h := &Handler{
		manager: manager,
		routes:  routes,
		mux:     http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /{$}", h.getIndexPage)
	h.mux.HandleFunc("GET /login", h.getLoginPage)

	mount(h.mux, route.ViewerPrefix+"/", viewer.NewHandler(manager, routes, sessionStore, purchaseMiddleware))

	return h
}

func mount(mux *http.ServeMux, prefix string, handler http.Handler) {
	trimmed := strings.TrimSuffix(prefix, "/")

	if len(trimmed) > 0 {
		mux.Handle(prefix, http.StripPrefix(trimmed, handler))
	} else {
		mux.Handle(prefix, handler)
	}
}

var _ http.Handler = &Handler{}
