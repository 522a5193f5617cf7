package viewer

import (
	"net/http"
	"strconv"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/core/viewer"
	httpCtx "github.com/bornholm/folio/internal/http/context"
	"github.com/bornholm/folio/internal/http/handler/webui/common"
	"github.com/bornholm/folio/internal/http/handler/webui/viewer/component"
	"github.com/pkg/errors"
)

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := httpCtx.User(ctx)
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	session, err := h.manager.GetSession(ctx, user, sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	documentID := session.Snapshot().DocumentID
	redirectURL := h.routes.Viewer(documentID)

	var prompt *viewer.Prompt

	switch action := r.PathValue("action"); action {
	case component.ActionNext:
		_, prompt, err = h.manager.NextPage(ctx, user, sessionID)
	case component.ActionPrev:
		_, prompt, err = h.manager.PrevPage(ctx, user, sessionID)
	case component.ActionZoomIn:
		_, err = session.ZoomIn()
	case component.ActionZoomOut:
		_, err = session.ZoomOut()
	case component.ActionRotate:
		_, err = session.Rotate()
	case component.ActionReload:
		_, err = h.manager.ReloadSession(ctx, user, sessionID)
	case component.ActionUnlock:
		prompt, err = h.manager.RequestUnlock(ctx, user, sessionID)
	case component.ActionClose:
		err = h.manager.CloseSession(ctx, user, sessionID)
		if err == nil {
			h.forgetDocumentSession(w, r, documentID)
			redirectURL = h.routes.Home()
		}
	default:
		common.HandleError(w, r, common.NewHTTPError(http.StatusNotFound))
		return
	}

	if err != nil {
		h.handleError(w, r, errors.WithStack(err), documentID)
		return
	}

	if prompt != nil {
		redirectURL += "?" + component.ParamUnlock
	}

	http.Redirect(w, r, redirectURL, http.StatusSeeOther)
}

func (h *Handler) handleJump(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := httpCtx.User(ctx)
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	session, err := h.manager.GetSession(ctx, user, sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	documentID := session.Snapshot().DocumentID

	if err := r.ParseForm(); err != nil {
		common.HandleError(w, r, common.NewHTTPError(http.StatusBadRequest))
		return
	}

	page, err := strconv.Atoi(r.Form.Get("page"))
	if err != nil {
		common.HandleError(w, r, common.WrapError(err, "The page number is invalid.", http.StatusBadRequest))
		return
	}

	_, prompt, err := h.manager.JumpToPage(ctx, user, sessionID, page)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), documentID)
		return
	}

	redirectURL := h.routes.Viewer(documentID)
	if prompt != nil {
		redirectURL += "?" + component.ParamUnlock
	}

	http.Redirect(w, r, redirectURL, http.StatusSeeOther)
}

// handleConfirmPurchase submits the pending purchase. A declined purchase
// renders the viewer again with the gateway message.
func (h *Handler) handleConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := httpCtx.User(ctx)
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	session, err := h.manager.GetSession(ctx, user, sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	documentID := session.Snapshot().DocumentID

	if model.IsAnonymous(user) {
		h.handleError(w, r, errors.WithStack(port.ErrUnauthenticated), documentID)
		return
	}

	if err := h.manager.ConfirmPurchase(ctx, user, sessionID); err != nil {
		var declined *port.PurchaseDeclinedError
		if !errors.As(err, &declined) {
			h.handleError(w, r, errors.WithStack(err), documentID)
			return
		}

		prompt, err := h.manager.RequestUnlock(ctx, user, sessionID)
		if err != nil {
			h.handleError(w, r, errors.WithStack(err), documentID)
			return
		}

		h.renderViewerPage(w, r, session, prompt, declined.Message, http.StatusPaymentRequired)
		return
	}

	http.Redirect(w, r, h.routes.Viewer(documentID), http.StatusSeeOther)
}

// handlePurchase buys a gated document fully viewable within its preview.
// A declined purchase renders the viewer again with the gateway message.
func (h *Handler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := httpCtx.User(ctx)
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	session, err := h.manager.GetSession(ctx, user, sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	documentID := session.Snapshot().DocumentID

	if model.IsAnonymous(user) {
		h.handleError(w, r, errors.WithStack(port.ErrUnauthenticated), documentID)
		return
	}

	if err := h.manager.PurchaseDocument(ctx, user, sessionID); err != nil {
		var declined *port.PurchaseDeclinedError
		if !errors.As(err, &declined) {
			h.handleError(w, r, errors.WithStack(err), documentID)
			return
		}

		h.renderViewerPage(w, r, session, nil, declined.Message, http.StatusPaymentRequired)
		return
	}

	http.Redirect(w, r, h.routes.Viewer(documentID), http.StatusSeeOther)
}
