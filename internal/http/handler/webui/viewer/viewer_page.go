package viewer

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/core/service"
	"github.com/bornholm/folio/internal/core/viewer"
	httpCtx "github.com/bornholm/folio/internal/http/context"
	"github.com/bornholm/folio/internal/http/handler/webui/common"
	commonComp "github.com/bornholm/folio/internal/http/handler/webui/common/component"
	"github.com/bornholm/folio/internal/http/handler/webui/viewer/component"
	"github.com/bornholm/folio/internal/http/middleware/authn"
	"github.com/pkg/errors"
)

const (
	loadWait          = 2 * time.Second
	sessionKeyPrefix  = "session:"
	viewerRefreshRate = 2
)

func (h *Handler) getViewerPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := httpCtx.User(ctx)
	documentID := model.DocumentID(r.PathValue("documentID"))

	session, err := h.getDocumentSession(w, r, user, documentID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	waitCtx, cancel := context.WithTimeout(ctx, loadWait)
	defer cancel()

	if _, err := session.Wait(waitCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		h.handleError(w, r, errors.WithStack(err), documentID)
		return
	}

	var prompt *viewer.Prompt
	if r.URL.Query().Has(component.ParamUnlock) {
		prompt, err = h.manager.RequestUnlock(ctx, user, session.ID())
		if err != nil {
			h.handleError(w, r, errors.WithStack(err), documentID)
			return
		}
	}

	h.renderViewerPage(w, r, session, prompt, "", http.StatusOK)
}

func (h *Handler) renderViewerPage(w http.ResponseWriter, r *http.Request, session *viewer.Session, prompt *viewer.Prompt, message string, statusCode int) {
	ctx := r.Context()
	user := httpCtx.User(ctx)

	snapshot := session.Snapshot()
	doc := session.Document()

	vmodel := component.ViewerPageVModel{
		Document:  doc,
		Session:   snapshot,
		Prompt:    prompt,
		Message:   message,
		Anonymous: model.IsAnonymous(user),
		Routes:    h.routes,
	}

	switch snapshot.State {
	case viewer.StateLoading:
		vmodel.RefreshRate = viewerRefreshRate
		templ.Handler(component.ViewerPage(vmodel), templ.WithStatus(statusCode)).ServeHTTP(w, r)
		return

	case viewer.StateLoadError:
		vmodel.Outcome = viewer.Outcome{
			Kind:        viewer.StrategyDownload,
			Error:       snapshot.LoadError,
			DownloadURL: h.routes.Download(doc.ID()),
		}
		templ.Handler(component.ViewerPage(vmodel), templ.WithStatus(statusCode)).ServeHTTP(w, r)
		return
	}

	strategies, err := h.manager.Strategies(ctx, user, session.ID())
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), doc.ID())
		return
	}

	vmodel.Strategies = strategies

	kind := session.Mode()
	if raw := r.URL.Query().Get(component.ParamStrategy); raw != "" {
		kind = viewer.StrategyKind(raw)
	}

	outcome, err := h.manager.SelectStrategy(ctx, user, session.ID(), kind, h.routes.Links(session.ID(), doc))
	if err != nil {
		if !errors.Is(err, viewer.ErrStrategyUnavailable) {
			h.handleError(w, r, errors.WithStack(err), doc.ID())
			return
		}

		outcome = viewer.Outcome{
			Kind:        kind,
			Error:       "This display mode is not available for this document.",
			DownloadURL: h.routes.Download(doc.ID()),
		}
	}

	vmodel.Outcome = outcome
	// Zoom and rotation may have been reset by a strategy switch
	vmodel.Session = session.Snapshot()

	templ.Handler(component.ViewerPage(vmodel), templ.WithStatus(statusCode)).ServeHTTP(w, r)
}

// getDocumentSession returns the viewer session remembered in the cookie
// for the document, or opens a new one.
func (h *Handler) getDocumentSession(w http.ResponseWriter, r *http.Request, user model.User, documentID model.DocumentID) (*viewer.Session, error) {
	ctx := r.Context()

	sess, err := h.sessions.Get(r, authn.SessionName)
	if err != nil {
		slog.DebugContext(ctx, "could not decode session cookie", slog.Any("error", errors.WithStack(err)))
	}

	key := sessionKeyPrefix + string(documentID)

	if rawID, ok := sess.Values[key].(string); ok {
		session, err := h.manager.GetSession(ctx, user, viewer.SessionID(rawID))
		if err == nil && session.State() != viewer.StateClosed {
			return session, nil
		}

		if err != nil && !errors.Is(err, port.ErrNotFound) {
			return nil, errors.WithStack(err)
		}
	}

	session, err := h.manager.OpenSession(ctx, user, documentID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	sess.Values[key] = string(session.ID())

	if err := sess.Save(r, w); err != nil {
		return nil, errors.WithStack(err)
	}

	return session, nil
}

func (h *Handler) forgetDocumentSession(w http.ResponseWriter, r *http.Request, documentID model.DocumentID) {
	sess, err := h.sessions.Get(r, authn.SessionName)
	if err != nil {
		return
	}

	delete(sess.Values, sessionKeyPrefix+string(documentID))

	if err := sess.Save(r, w); err != nil {
		slog.ErrorContext(r.Context(), "could not save session cookie", slog.Any("error", errors.WithStack(err)))
	}
}

// handleError renders the error page with the actions still available
// to the viewer: downloading the document, retrying or going back.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error, documentID model.DocumentID) {
	links := []commonComp.LinkItem{}

	if documentID != "" {
		links = append(links,
			commonComp.Link("Download the document", h.routes.Download(documentID)),
			commonComp.Link("Back to the viewer", h.routes.Viewer(documentID)),
		)
	}

	var declined *port.PurchaseDeclinedError

	switch {
	case errors.As(err, &declined):
		err = common.WrapError(err, declined.Message, http.StatusPaymentRequired, links...)

	case errors.Is(err, viewer.ErrPreviewLimitExceeded):
		if documentID != "" {
			links = append([]commonComp.LinkItem{commonComp.Link("Unlock the document", h.routes.Viewer(documentID)+"?"+component.ParamUnlock)}, links...)
		}
		err = common.WrapError(err, "This page is beyond the preview. Purchase the document to read further.", http.StatusPaymentRequired, links...)

	case errors.Is(err, port.ErrNotFound):
		err = common.WrapError(err, "This document or viewer session does not exist anymore.", http.StatusNotFound, commonComp.Link("Back to the documents", h.routes.Home()))

	case errors.Is(err, port.ErrUnauthenticated):
		err = common.WrapError(err, "You must be logged in to purchase this document.", http.StatusUnauthorized, links...)

	case errors.Is(err, viewer.ErrLoadFailed):
		err = common.WrapError(err, "The document could not be loaded. You can still download it.", http.StatusConflict, links...)

	case errors.Is(err, viewer.ErrSessionClosed):
		err = common.WrapError(err, "This viewer session is closed.", http.StatusGone, links...)

	case errors.Is(err, viewer.ErrNotReady), errors.Is(err, viewer.ErrUnlockInProgress):
		err = common.WrapError(err, "The document is not ready yet, please retry in a moment.", http.StatusConflict, links...)

	case errors.Is(err, viewer.ErrNoPendingUnlock), errors.Is(err, viewer.ErrNotPurchasable):
		err = common.WrapError(err, "There is nothing to purchase from this viewer anymore.", http.StatusConflict, links...)

	case errors.Is(err, viewer.ErrNotPaginated), errors.Is(err, viewer.ErrStrategyUnavailable), errors.Is(err, service.ErrNotText):
		err = common.WrapError(err, "This display mode is not available for this document.", http.StatusUnprocessableEntity, links...)

	default:
		slog.ErrorContext(r.Context(), "unexpected error", slog.Any("error", errors.WithStack(err)))
		err = common.WrapError(err, "An unexpected error occurred.", http.StatusInternalServerError, links...)
	}

	common.HandleError(w, r, err)
}
