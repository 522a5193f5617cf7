package viewer

import (
	"net/http"

	"github.com/bornholm/folio/internal/core/service"
	"github.com/bornholm/folio/internal/http/route"
	"github.com/gorilla/sessions"
)

type Handler struct {
	manager  *service.ViewerManager
	routes   *route.Routes
	sessions sessions.Store
	mux      *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// NewHandler creates the viewer pages handler. The purchase middleware wraps
// the purchase forms, ie to rate limit it.
func NewHandler(manager *service.ViewerManager, routes *route.Routes, sessions sessions.Store, purchaseMiddleware func(http.Handler) http.Handler) *Handler {
	h := &Handler{
		manager:  manager,
		routes:   routes,
		sessions: sessions,
		mux:      http.NewServeMux(),
	}

	if purchaseMiddleware == nil {
		purchaseMiddleware = func(next http.Handler) http.Handler { return next }
	}

	h.mux.HandleFunc("GET /{documentID}", h.getViewerPage)
	h.mux.HandleFunc("GET /sessions/{sessionID}/fullpage", h.getFullPage)
	h.mux.HandleFunc("GET /sessions/{sessionID}/text", h.getTextPage)
	h.mux.HandleFunc("GET /sessions/{sessionID}/rendered", h.getRendered)
	h.mux.HandleFunc("POST /sessions/{sessionID}/actions/{action}", h.handleAction)
	h.mux.HandleFunc("POST /sessions/{sessionID}/jump", h.handleJump)
	h.mux.Handle("POST /sessions/{sessionID}/unlock/confirm", purchaseMiddleware(http.HandlerFunc(h.handleConfirmPurchase)))
	h.mux.Handle("POST /sessions/{sessionID}/purchase", purchaseMiddleware(http.HandlerFunc(h.handlePurchase)))

	return h
}

var _ http.Handler = &Handler{}
