package component

import (
	"github.com/a-h/templ"
)

type ErrorPageVModel struct {
	Title   string
	Message string
	Links   []LinkItem
}

func ErrorPage(vmodel ErrorPageVModel) templ.Component {
	return Page(vmodel.Title, HTML(func(h *Writer) {
		h.Raw(`<section class="error">`)
		h.Element("h1", vmodel.Title)
		h.Element("p", vmodel.Message)

		if len(vmodel.Links) > 0 {
			h.Raw("<ul>")
			for _, link := range vmodel.Links {
				h.Raw("<li>")
				h.Link(link.SafeURL(), link.Label)
				h.Raw("</li>")
			}
			h.Raw("</ul>")
		}

		h.Raw("</section>")
	}))
}
