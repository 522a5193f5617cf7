package component

import "github.com/a-h/templ"

type LinkItem struct {
	Label string
	URL   string
}

// SafeURL returns the link URL, unsafe schemes being neutralized
func (l LinkItem) SafeURL() templ.SafeURL {
	return templ.URL(l.URL)
}

func Link(label, url string) LinkItem {
	return LinkItem{Label: label, URL: url}
}
