package component

import (
	"fmt"

	"github.com/a-h/templ"
)

// Page wraps the content in the common layout. The head components are
// rendered in the document head, ie a refresh directive.
func Page(title string, content templ.Component, head ...templ.Component) templ.Component {
	return HTML(func(h *Writer) {
		h.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)

		for _, c := range head {
			h.Render(c)
		}

		h.Element("title", title+" - Folio")
		h.Raw("</head><body><main>")
		h.Render(content)
		h.Raw("</main></body></html>")
	})
}

// Refresh asks the browser to reload the page after the given delay in seconds
func Refresh(seconds int) templ.Component {
	return HTML(func(h *Writer) {
		h.Raw(`<meta http-equiv="refresh"`)
		h.Attr("content", fmt.Sprint(seconds))
		h.Raw(">")
	})
}
