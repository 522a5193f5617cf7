package webui

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/http/handler/webui/common"
	"github.com/bornholm/folio/internal/http/handler/webui/component"
	"github.com/pkg/errors"
)

const documentsPerPage = 20

func (h *Handler) getIndexPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		page = 0
	}

	limit := documentsPerPage

	documents, total, err := h.manager.QueryDocuments(ctx, port.QueryDocumentsOptions{
		Page:  &page,
		Limit: &limit,
	})
	if err != nil {
		common.HandleError(w, r, errors.WithStack(err))
		return
	}

	indexPage := component.IndexPage(component.IndexPageVModel{
		Documents: documents,
		Total:     total,
		Page:      page,
		Limit:     limit,
		Routes:    h.routes,
	})

	templ.Handler(indexPage).ServeHTTP(w, r)
}
