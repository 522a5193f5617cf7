package component

import (
	"github.com/a-h/templ"
	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/viewer"
	commonComp "github.com/bornholm/folio/internal/http/handler/webui/common/component"
	"github.com/bornholm/folio/internal/http/route"
)

type FullPageVModel struct {
	Document   model.Document
	SessionID  viewer.SessionID
	Strategies []viewer.StrategyKind
	Outcome    viewer.Outcome
	Routes     *route.Routes
}

func (m FullPageVModel) Title() string {
	if title := m.Document.Title(); title != "" {
		return title
	}

	return m.Document.FileName()
}

func (m FullPageVModel) StrategyURL(kind viewer.StrategyKind) templ.SafeURL {
	return templ.SafeURL(m.Routes.FullPage(m.SessionID) + "?" + ParamStrategy + "=" + string(kind))
}

// FullPage displays an office document on the whole window, with
// the ways it can be displayed.
func FullPage(vmodel FullPageVModel) templ.Component {
	return commonComp.Page(vmodel.Title(), commonComp.HTML(func(h *commonComp.Writer) {
		h.Raw(`<section class="fullpage">`)

		strategyNav(h, vmodel.Strategies, vmodel.Outcome.Kind, vmodel.StrategyURL)

		switch {
		case vmodel.Outcome.Error != "":
			h.Element("p", vmodel.Outcome.Error, "class", "error")
		case vmodel.Outcome.EmbedURL != "":
			h.Raw(`<iframe class="document"`)
			h.URL("src", templ.URL(vmodel.Outcome.EmbedURL))
			h.Attr("title", vmodel.Title())
			h.Raw("></iframe>")
		}

		h.Link(templ.URL(vmodel.Outcome.DownloadURL), "Download", "download", "", "target", "_top")
		h.Raw("</section>")
	}))
}
