package component

import (
	"github.com/a-h/templ"
	commonComp "github.com/bornholm/folio/internal/http/handler/webui/common/component"
)

type TextPageVModel struct {
	Title string
	// HTML is the rendered markdown, raw HTML blocks being omitted
	// by the renderer
	HTML  string
	Plain string
}

func TextPage(vmodel TextPageVModel) templ.Component {
	return commonComp.Page(vmodel.Title, commonComp.HTML(func(h *commonComp.Writer) {
		h.Raw(`<article class="text">`)

		if vmodel.HTML != "" {
			h.Render(templ.Raw(vmodel.HTML))
		} else {
			h.Element("pre", vmodel.Plain)
		}

		h.Raw("</article>")
	}))
}
