package component

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Writer writes the markup of a component. The first write error is
// kept and returned once the component has been rendered.
type Writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

// HTML returns a component whose markup is written by the given function
func HTML(fn func(h *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &Writer{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}

// Raw writes the given markup as is
func (h *Writer) Raw(markup ...string) {
	for _, m := range markup {
		if h.err != nil {
			return
		}

		_, h.err = io.WriteString(h.w, m)
	}
}

// Text writes the escaped text
func (h *Writer) Text(text string) {
	h.Raw(templ.EscapeString(text))
}

func (h *Writer) Textf(format string, args ...any) {
	h.Text(fmt.Sprintf(format, args...))
}

// Attr writes an escaped attribute, with a leading space
func (h *Writer) Attr(name string, value string) {
	h.Raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// URL writes an URL attribute, ie "href" or "src"
func (h *Writer) URL(name string, u templ.SafeURL) {
	h.Attr(name, string(u))
}

// Open writes an opening tag with the given name="value" attribute pairs
func (h *Writer) Open(tag string, attrs ...string) {
	h.Raw("<", tag)

	for i := 0; i+1 < len(attrs); i += 2 {
		h.Attr(attrs[i], attrs[i+1])
	}

	h.Raw(">")
}

func (h *Writer) Close(tag string) {
	h.Raw("</", tag, ">")
}

// Element writes an element with an escaped text content
func (h *Writer) Element(tag string, text string, attrs ...string) {
	h.Open(tag, attrs...)
	h.Text(text)
	h.Close(tag)
}

// Link writes an anchor to the given URL
func (h *Writer) Link(u templ.SafeURL, label string, attrs ...string) {
	h.Raw("<a")
	h.URL("href", u)

	for i := 0; i+1 < len(attrs); i += 2 {
		h.Attr(attrs[i], attrs[i+1])
	}

	h.Raw(">")
	h.Text(label)
	h.Raw("</a>")
}

// PostButton writes a form posting to the given URL with a single button
func (h *Writer) PostButton(action templ.SafeURL, label string) {
	h.Raw(`<form method="post"`)
	h.URL("action", action)
	h.Raw(`><button type="submit">`)
	h.Text(label)
	h.Raw("</button></form>")
}

// Render renders a child component in place
func (h *Writer) Render(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}

	h.err = c.Render(h.ctx, h.w)
}
