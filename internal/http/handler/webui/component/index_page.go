package component

import (
	"strconv"

	"github.com/a-h/templ"
	"github.com/bornholm/folio/internal/core/model"
	commonComp "github.com/bornholm/folio/internal/http/handler/webui/common/component"
	"github.com/bornholm/folio/internal/http/route"
)

type IndexPageVModel struct {
	Documents []model.Document
	Total     int64
	Page      int
	Limit     int
	Routes    *route.Routes
}

func (m IndexPageVModel) PrevURL() templ.SafeURL {
	if m.Page == 0 {
		return ""
	}

	return templ.SafeURL(m.Routes.Home() + "?page=" + strconv.Itoa(m.Page-1))
}

func (m IndexPageVModel) NextURL() templ.SafeURL {
	if int64((m.Page+1)*m.Limit) >= m.Total {
		return ""
	}

	return templ.SafeURL(m.Routes.Home() + "?page=" + strconv.Itoa(m.Page+1))
}

func IndexPage(vmodel IndexPageVModel) templ.Component {
	return commonComp.Page("Documents", commonComp.HTML(func(h *commonComp.Writer) {
		h.Raw(`<section class="documents"><h1>Documents</h1>`)

		if len(vmodel.Documents) == 0 {
			h.Element("p", "No document has been published yet.")
		} else {
			h.Raw("<ul>")
			for _, doc := range vmodel.Documents {
				documentItem(h, vmodel.Routes, doc)
			}
			h.Raw("</ul>")
		}

		h.Raw(`<nav class="pagination">`)
		if u := vmodel.PrevURL(); u != "" {
			h.Link(u, "Previous")
		}
		if u := vmodel.NextURL(); u != "" {
			h.Link(u, "Next")
		}
		h.Raw("</nav></section>")
	}))
}

func documentItem(h *commonComp.Writer, routes *route.Routes, doc model.Document) {
	label := doc.Title()
	if label == "" {
		label = doc.FileName()
	}

	h.Raw("<li>")
	h.Link(templ.SafeURL(routes.Viewer(doc.ID())), label)
	h.Element("span", string(doc.Category()), "class", "category")

	if doc.Gated() {
		h.Element("span", commonComp.FormatPrice(doc.Price()), "class", "price")
	}

	h.Raw("</li>")
}
