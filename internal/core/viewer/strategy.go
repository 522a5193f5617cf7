package viewer

import (
	"net/url"
	"slices"
	"strings"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/pkg/errors"
)

type StrategyKind string

const (
	StrategyNative         StrategyKind = "native"
	StrategyFullPage       StrategyKind = "full-page"
	StrategyOfficeOnline   StrategyKind = "office-online"
	StrategyDocumentViewer StrategyKind = "document-viewer"
	StrategyLocal          StrategyKind = "local"
	StrategyText           StrategyKind = "text"
	StrategyImage          StrategyKind = "image"
	StrategyDownload       StrategyKind = "download"
)

const (
	DefaultOfficeViewerURL   = "https://view.officeapps.live.com/op/embed.aspx?src={url}"
	DefaultDocumentViewerURL = "https://docs.google.com/gview?embedded=true&url={url}"
)

// Strategies returns the ordered rendering strategies of a document category.
// Download is always the last resort and never depends on another strategy.
func Strategies(category model.Category) []StrategyKind {
	switch {
	case category == model.CategoryPDF:
		return []StrategyKind{StrategyNative, StrategyDownload}
	case category.Office():
		return []StrategyKind{StrategyFullPage, StrategyOfficeOnline, StrategyDocumentViewer, StrategyDownload}
	case category == model.CategoryText:
		return []StrategyKind{StrategyText, StrategyDownload}
	case category == model.CategoryImage:
		return []StrategyKind{StrategyImage, StrategyDownload}
	default:
		return []StrategyKind{StrategyDownload}
	}
}

func DefaultStrategy(category model.Category) StrategyKind {
	return Strategies(category)[0]
}

// Outcome is the result of a strategy selection: either content to
// embed or an explicit error message, always along with the download link.
type Outcome struct {
	Kind        StrategyKind `json:"kind"`
	EmbedURL    string       `json:"embedUrl,omitempty"`
	Error       string       `json:"error,omitempty"`
	DownloadURL string       `json:"downloadUrl"`
}

// Links are the URLs a strategy outcome may point to
type Links struct {
	ContentURL  string
	FullPageURL string
	RenderedURL string
	DownloadURL string

	// PublicURL is the absolute http(s) URL handed to external
	// viewers, nil when the document cannot be exposed publicly
	PublicURL *url.URL

	OfficeViewerURL   string
	DocumentViewerURL string

	LocalRendering bool
}

// SelectStrategy activates the given strategy. There is no automatic
// failover: an unusable strategy yields an outcome carrying an error.
func (s *Session) SelectStrategy(kind StrategyKind, links Links) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := Outcome{
		Kind:        kind,
		DownloadURL: links.DownloadURL,
	}

	switch s.state {
	case StateClosed:
		return outcome, errors.WithStack(ErrSessionClosed)
	case StateIdle:
		return outcome, errors.WithStack(ErrNotReady)
	case StateLoadError:
		if kind != StrategyDownload {
			return outcome, errors.WithStack(ErrLoadFailed)
		}
	}

	category := s.document.Category()

	available := Strategies(category)
	if category.Office() && links.LocalRendering {
		available = append(available, StrategyLocal)
	}

	if !slices.Contains(available, kind) {
		return outcome, errors.Wrapf(ErrStrategyUnavailable, "strategy '%s' is not available for '%s' documents", kind, category)
	}

	switch kind {
	case StrategyNative, StrategyText, StrategyImage:
		outcome.EmbedURL = links.ContentURL

	case StrategyFullPage:
		outcome.EmbedURL = links.FullPageURL

	case StrategyLocal:
		outcome.EmbedURL = links.RenderedURL

	case StrategyOfficeOnline, StrategyDocumentViewer:
		template := links.OfficeViewerURL
		if kind == StrategyDocumentViewer {
			template = links.DocumentViewerURL
		}

		switch {
		case !s.fullAccess():
			outcome.Error = "External viewers display the whole document and are only available once the document is unlocked."
		case links.PublicURL == nil:
			outcome.Error = "This document has no public address an external viewer could use."
		case template == "":
			outcome.Error = "This external viewer is disabled."
		default:
			outcome.EmbedURL = ViewerURL(template, links.PublicURL)
		}
	}

	s.mode = kind

	return outcome, nil
}

// ViewerURL fills the {url} placeholder of an external viewer template.
func ViewerURL(template string, u *url.URL) string {
	return strings.ReplaceAll(template, "{url}", url.QueryEscape(u.String()))
}
