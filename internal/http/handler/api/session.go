package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/viewer"
	httpCtx "github.com/bornholm/folio/internal/http/context"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

const maxWait = 30 * time.Second

type SessionResponse struct {
	Session viewer.Snapshot `json:"session"`
	Links   SessionLinks    `json:"links"`
}

type SessionLinks struct {
	Self     string `json:"self"`
	Page     string `json:"page,omitempty"`
	Unlock   string `json:"unlock,omitempty"`
	Purchase string `json:"purchase,omitempty"`
	Download string `json:"download,omitempty"`
}

func (h *Handler) sessionResponse(session *viewer.Session) SessionResponse {
	snapshot := session.Snapshot()

	links := SessionLinks{
		Self: h.routes.Session(session.ID()),
	}

	switch {
	case snapshot.Allows(viewer.ActionUnlock):
		links.Unlock = h.routes.Unlock(session.ID())
	case snapshot.Allows(viewer.ActionPurchase):
		links.Purchase = h.routes.Purchase(session.ID())
	}

	if snapshot.PageCount > 0 {
		links.Page = h.routes.Page(session.ID())
	}

	if snapshot.DocumentID != "" {
		links.Download = h.routes.Download(snapshot.DocumentID)
	}

	return SessionResponse{
		Session: snapshot,
		Links:   links,
	}
}

type OpenSessionRequest struct {
	DocumentID string `json:"documentId"`
}

func (h *Handler) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DocumentID == "" {
		writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: "a document id is required"})
		return
	}

	session, err := h.manager.OpenSession(ctx, httpCtx.User(ctx), model.DocumentID(req.DocumentID))
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	w.Header().Set("Location", h.routes.Session(session.ID()))

	writeJSON(w, r, http.StatusCreated, h.sessionResponse(session))
}

// handleGetSession returns the session state. With the "wait" parameter
// the response is delayed until the document load is resolved.
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.manager.GetSession(ctx, httpCtx.User(ctx), viewer.SessionID(r.PathValue("sessionID")))
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	if rawWait := r.URL.Query().Get("wait"); rawWait != "" {
		wait, err := time.ParseDuration(rawWait)
		if err != nil {
			writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: "invalid wait duration"})
			return
		}

		wait = min(wait, maxWait)

		waitCtx, cancel := context.WithTimeout(ctx, wait)
		defer cancel()

		if _, err := session.Wait(waitCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			h.handleError(w, r, errors.WithStack(err), "")
			return
		}
	}

	writeJSON(w, r, http.StatusOK, h.sessionResponse(session))
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.manager.CloseSession(ctx, httpCtx.User(ctx), viewer.SessionID(r.PathValue("sessionID"))); err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReloadSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.manager.ReloadSession(ctx, httpCtx.User(ctx), viewer.SessionID(r.PathValue("sessionID")))
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	writeJSON(w, r, http.StatusAccepted, h.sessionResponse(session))
}

type NavigationResponse struct {
	Navigation viewer.Navigation `json:"navigation"`
	// Prompt is the purchase prompt, set when the navigation was blocked
	Prompt  *viewer.Prompt  `json:"prompt,omitempty"`
	Session SessionResponse `json:"session"`
}

func (h *Handler) handleNextPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	nav, prompt, err := h.manager.NextPage(ctx, httpCtx.User(ctx), sessionID)
	h.writeNavigation(w, r, sessionID, nav, prompt, err)
}

func (h *Handler) handlePrevPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	nav, prompt, err := h.manager.PrevPage(ctx, httpCtx.User(ctx), sessionID)
	h.writeNavigation(w, r, sessionID, nav, prompt, err)
}

type JumpToPageRequest struct {
	Page int `json:"page"`
}

func (h *Handler) handleJumpToPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	var req JumpToPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: "a page number is required"})
		return
	}

	nav, prompt, err := h.manager.JumpToPage(ctx, httpCtx.User(ctx), sessionID, req.Page)
	h.writeNavigation(w, r, sessionID, nav, prompt, err)
}

// writeNavigation responds to a page transition. A transition blocked by
// the preview policy is a successful response carrying the purchase prompt.
func (h *Handler) writeNavigation(w http.ResponseWriter, r *http.Request, sessionID viewer.SessionID, nav viewer.Navigation, prompt *viewer.Prompt, err error) {
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	session, err := h.manager.GetSession(r.Context(), httpCtx.User(r.Context()), sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	writeJSON(w, r, http.StatusOK, NavigationResponse{
		Navigation: nav,
		Prompt:     prompt,
		Session:    h.sessionResponse(session),
	})
}

type ZoomResponse struct {
	Zoom float64 `json:"zoom"`
}

func (h *Handler) handleZoomIn(w http.ResponseWriter, r *http.Request) {
	h.handleZoom(w, r, (*viewer.Session).ZoomIn)
}

func (h *Handler) handleZoomOut(w http.ResponseWriter, r *http.Request) {
	h.handleZoom(w, r, (*viewer.Session).ZoomOut)
}

func (h *Handler) handleZoom(w http.ResponseWriter, r *http.Request, fn func(s *viewer.Session) (float64, error)) {
	ctx := r.Context()

	session, err := h.manager.GetSession(ctx, httpCtx.User(ctx), viewer.SessionID(r.PathValue("sessionID")))
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	zoom, err := fn(session)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	writeJSON(w, r, http.StatusOK, ZoomResponse{Zoom: zoom})
}

type RotateResponse struct {
	Rotation int `json:"rotation"`
}

func (h *Handler) handleRotate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.manager.GetSession(ctx, httpCtx.User(ctx), viewer.SessionID(r.PathValue("sessionID")))
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	rotation, err := session.Rotate()
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	writeJSON(w, r, http.StatusOK, RotateResponse{Rotation: rotation})
}

// handleGetPage serves a single page document, the current one unless
// the "page" parameter is given.
func (h *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	page := getQueryPage(r.URL.Query(), 0)

	data, err := h.manager.RenderPage(ctx, httpCtx.User(ctx), sessionID, page)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), h.routes.Unlock(sessionID))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Cache-Control", "private, no-store")

	if _, err := w.Write(data); err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
	}
}

func (h *Handler) handleGetContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, content, err := h.manager.InlineContent(ctx, httpCtx.User(ctx), viewer.SessionID(r.PathValue("sessionID")))
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	contentType := mimetype.Detect(content).String()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, no-store")

	if _, err := w.Write(content); err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
	}
}

type ListStrategiesResponse struct {
	Strategies []viewer.StrategyKind `json:"strategies"`
	Active     viewer.StrategyKind   `json:"active"`
}

func (h *Handler) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := httpCtx.User(ctx)
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	session, err := h.manager.GetSession(ctx, user, sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	strategies, err := h.manager.Strategies(ctx, user, sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	writeJSON(w, r, http.StatusOK, ListStrategiesResponse{
		Strategies: strategies,
		Active:     session.Mode(),
	})
}

type SelectStrategyResponse struct {
	Outcome viewer.Outcome `json:"outcome"`
}

func (h *Handler) handleSelectStrategy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := httpCtx.User(ctx)
	sessionID := viewer.SessionID(r.PathValue("sessionID"))
	kind := viewer.StrategyKind(r.PathValue("kind"))

	session, err := h.manager.GetSession(ctx, user, sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	outcome, err := h.manager.SelectStrategy(ctx, user, sessionID, kind, h.routes.Links(sessionID, session.Document()))
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	writeJSON(w, r, http.StatusOK, SelectStrategyResponse{Outcome: outcome})
}

type UnlockResponse struct {
	// Prompt is nil when no preview restriction is left to lift
	Prompt     *viewer.Prompt `json:"prompt"`
	ConfirmURL string         `json:"confirmUrl,omitempty"`
}

func (h *Handler) handleRequestUnlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	prompt, err := h.manager.RequestUnlock(ctx, httpCtx.User(ctx), sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	res := UnlockResponse{Prompt: prompt}
	if prompt != nil {
		res.ConfirmURL = h.routes.ConfirmPurchase(sessionID)
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *Handler) handleConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := httpCtx.User(ctx)
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	if err := h.manager.ConfirmPurchase(ctx, user, sessionID); err != nil {
		h.handleError(w, r, errors.WithStack(err), h.routes.Unlock(sessionID))
		return
	}

	session, err := h.manager.GetSession(ctx, user, sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	writeJSON(w, r, http.StatusOK, h.sessionResponse(session))
}

func (h *Handler) handlePurchaseDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := httpCtx.User(ctx)
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	if err := h.manager.PurchaseDocument(ctx, user, sessionID); err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	session, err := h.manager.GetSession(ctx, user, sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	writeJSON(w, r, http.StatusOK, h.sessionResponse(session))
}
