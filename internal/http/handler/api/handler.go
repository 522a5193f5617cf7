package api

import (
	"net/http"

	"github.com/bornholm/folio/internal/core/service"
	"github.com/bornholm/folio/internal/http/route"
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

// NewHandler creates the JSON API handler. The purchase middleware wraps
// the purchase endpoints, ie to rate limit it.
func NewHandler(manager *service.ViewerManager, routes *route.Routes, purchaseMiddleware func(http.Handler) http.Handler) *Handler {
	h := &Handler{
		manager: manager,
		routes:  routes,
		mux:     &http.ServeMux{},
	}

	if purchaseMiddleware == nil {
		purchaseMiddleware = func(next http.Handler) http.Handler { return next }
	}

	h.mux.HandleFunc("GET /documents", h.handleListDocuments)
	h.mux.HandleFunc("GET /documents/{documentID}", h.handleGetDocument)
	h.mux.HandleFunc("GET /documents/{documentID}/access", h.handleGetAccess)
	h.mux.HandleFunc("GET /documents/{documentID}/download", h.handleDownload)

	h.mux.HandleFunc("POST /sessions", h.handleOpenSession)
	h.mux.HandleFunc("GET /sessions/{sessionID}", h.handleGetSession)
	h.mux.HandleFunc("DELETE /sessions/{sessionID}", h.handleCloseSession)
	h.mux.HandleFunc("POST /sessions/{sessionID}/reload", h.handleReloadSession)
	h.mux.HandleFunc("POST /sessions/{sessionID}/next", h.handleNextPage)
	h.mux.HandleFunc("POST /sessions/{sessionID}/prev", h.handlePrevPage)
	h.mux.HandleFunc("POST /sessions/{sessionID}/jump", h.handleJumpToPage)
	h.mux.HandleFunc("POST /sessions/{sessionID}/zoom-in", h.handleZoomIn)
	h.mux.HandleFunc("POST /sessions/{sessionID}/zoom-out", h.handleZoomOut)
	h.mux.HandleFunc("POST /sessions/{sessionID}/rotate", h.handleRotate)
	h.mux.HandleFunc("GET /sessions/{sessionID}/page", h.handleGetPage)
	h.mux.HandleFunc("GET /sessions/{sessionID}/content", h.handleGetContent)
	h.mux.HandleFunc("GET /sessions/{sessionID}/strategies", h.handleListStrategies)
	h.mux.HandleFunc("POST /sessions/{sessionID}/strategies/{kind}", h.handleSelectStrategy)
	h.mux.HandleFunc("POST /sessions/{sessionID}/unlock", h.handleRequestUnlock)
	h.mux.Handle("POST /sessions/{sessionID}/unlock/confirm", purchaseMiddleware(http.HandlerFunc(h.handleConfirmPurchase)))
	h.mux.Handle("POST /sessions/{sessionID}/purchase", purchaseMiddleware(http.HandlerFunc(h.handlePurchaseDocument)))

	return h
}

var _ http.Handler = &Handler{}
