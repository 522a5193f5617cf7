package viewer

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/a-h/templ"
	"github.com/bornholm/folio/internal/core/viewer"
	httpCtx "github.com/bornholm/folio/internal/http/context"
	"github.com/bornholm/folio/internal/http/handler/webui/common"
	"github.com/bornholm/folio/internal/http/handler/webui/viewer/component"
	"github.com/pkg/errors"
)

// fullPageStrategies are the ways an office document can be displayed
// on the full page view, in display order
var fullPageStrategies = []viewer.StrategyKind{
	viewer.StrategyOfficeOnline,
	viewer.StrategyDocumentViewer,
	viewer.StrategyLocal,
}

func (h *Handler) getFullPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := httpCtx.User(ctx)
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	session, err := h.manager.GetSession(ctx, user, sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	doc := session.Document()
	if doc == nil {
		h.handleError(w, r, errors.WithStack(viewer.ErrNotReady), "")
		return
	}

	available, err := h.manager.Strategies(ctx, user, sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), doc.ID())
		return
	}

	vmodel := component.FullPageVModel{
		Document:  doc,
		SessionID: sessionID,
		Routes:    h.routes,
	}

	for _, kind := range fullPageStrategies {
		if slices.Contains(available, kind) {
			vmodel.Strategies = append(vmodel.Strategies, kind)
		}
	}

	if len(vmodel.Strategies) == 0 {
		h.handleError(w, r, errors.WithStack(viewer.ErrStrategyUnavailable), doc.ID())
		return
	}

	kind := vmodel.Strategies[0]
	if raw := r.URL.Query().Get(component.ParamStrategy); raw != "" {
		kind = viewer.StrategyKind(raw)
	}

	outcome, err := h.manager.SelectStrategy(ctx, user, sessionID, kind, h.routes.Links(sessionID, doc))
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), doc.ID())
		return
	}

	vmodel.Outcome = outcome

	templ.Handler(component.FullPage(vmodel)).ServeHTTP(w, r)
}

func (h *Handler) getTextPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := httpCtx.User(ctx)
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	text, err := h.manager.RenderText(ctx, user, sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	vmodel := component.TextPageVModel{
		Title: text.Title,
		HTML:  string(text.HTML),
		Plain: text.Plain,
	}

	if vmodel.Title == "" {
		vmodel.Title = text.Document.FileName()
	}

	templ.Handler(component.TextPage(vmodel)).ServeHTTP(w, r)
}

// getRendered returns a page of the local rendition of an office document.
// Without the "page" parameter the current session page is returned.
func (h *Handler) getRendered(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := httpCtx.User(ctx)
	sessionID := viewer.SessionID(r.PathValue("sessionID"))

	session, err := h.manager.GetSession(ctx, user, sessionID)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), "")
		return
	}

	documentID := session.Snapshot().DocumentID

	page := session.CurrentPage()
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			common.HandleError(w, r, common.WrapError(err, "The page number is invalid.", http.StatusBadRequest))
			return
		}
	}

	data, err := h.manager.RenderLocal(ctx, user, sessionID, page)
	if err != nil {
		h.handleError(w, r, errors.WithStack(err), documentID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(data); err != nil {
		slog.ErrorContext(ctx, "could not write rendered page", slog.Any("error", errors.WithStack(err)))
	}
}
