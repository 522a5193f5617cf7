package route

import (
	"net/url"
	"strings"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/viewer"
)

const (
	APIPrefix    = "/api/v1"
	ViewerPrefix = "/viewer"
)

// Routes builds the absolute paths of the service resources
type Routes struct {
	baseURL string
}

func New(baseURL string) *Routes {
	return &Routes{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (r *Routes) path(segments ...string) string {
	var sb strings.Builder

	sb.WriteString(r.baseURL)

	for _, s := range segments {
		if !strings.HasPrefix(s, "/") {
			sb.WriteString("/")
		}
		sb.WriteString(s)
	}

	return sb.String()
}

func (r *Routes) Home() string {
	return r.path("/")
}

// Login returns the login page redirecting to the given local path
func (r *Routes) Login(next string) string {
	return r.path("login") + "?next=" + url.QueryEscape(next)
}

func (r *Routes) Download(documentID model.DocumentID) string {
	return r.path(APIPrefix, "documents", url.PathEscape(string(documentID)), "download")
}

func (r *Routes) Viewer(documentID model.DocumentID) string {
	return r.path(ViewerPrefix, url.PathEscape(string(documentID)))
}

func (r *Routes) Session(sessionID viewer.SessionID) string {
	return r.path(APIPrefix, "sessions", url.PathEscape(string(sessionID)))
}

func (r *Routes) Unlock(sessionID viewer.SessionID) string {
	return r.Session(sessionID) + "/unlock"
}

func (r *Routes) ConfirmPurchase(sessionID viewer.SessionID) string {
	return r.Unlock(sessionID) + "/confirm"
}

// Purchase returns the endpoint buying a document fully viewable in its preview
func (r *Routes) Purchase(sessionID viewer.SessionID) string {
	return r.Session(sessionID) + "/purchase"
}

func (r *Routes) Page(sessionID viewer.SessionID) string {
	return r.Session(sessionID) + "/page"
}

func (r *Routes) Content(sessionID viewer.SessionID) string {
	return r.Session(sessionID) + "/content"
}

func (r *Routes) FullPage(sessionID viewer.SessionID) string {
	return r.viewerSession(sessionID, "fullpage")
}

func (r *Routes) Text(sessionID viewer.SessionID) string {
	return r.viewerSession(sessionID, "text")
}

func (r *Routes) Rendered(sessionID viewer.SessionID) string {
	return r.viewerSession(sessionID, "rendered")
}

func (r *Routes) viewerSession(sessionID viewer.SessionID, segments ...string) string {
	return r.path(append([]string{ViewerPrefix, "sessions", url.PathEscape(string(sessionID))}, segments...)...)
}

// Action returns the web form endpoint of a viewer action, ie "next" or "rotate"
func (r *Routes) Action(sessionID viewer.SessionID, action string) string {
	return r.viewerSession(sessionID, "actions", url.PathEscape(action))
}

func (r *Routes) Jump(sessionID viewer.SessionID) string {
	return r.viewerSession(sessionID, "jump")
}

func (r *Routes) ViewerConfirm(sessionID viewer.SessionID) string {
	return r.viewerSession(sessionID, "unlock", "confirm")
}

func (r *Routes) ViewerPurchase(sessionID viewer.SessionID) string {
	return r.viewerSession(sessionID, "purchase")
}

// Links returns the strategy links of a session document
func (r *Routes) Links(sessionID viewer.SessionID, doc model.Document) viewer.Links {
	links := viewer.Links{
		ContentURL:  r.Page(sessionID),
		FullPageURL: r.FullPage(sessionID),
		RenderedURL: r.Rendered(sessionID),
	}

	if doc == nil {
		return links
	}

	links.DownloadURL = r.Download(doc.ID())

	switch doc.Category() {
	case model.CategoryText:
		links.ContentURL = r.Text(sessionID)
	case model.CategoryImage:
		links.ContentURL = r.Content(sessionID)
	}

	return links
}
