package component

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/viewer"
	commonComp "github.com/bornholm/folio/internal/http/handler/webui/common/component"
	"github.com/bornholm/folio/internal/http/route"
)

const (
	ParamStrategy = "strategy"
	ParamUnlock   = "unlock"
)

// Form actions of the viewer toolbar
const (
	ActionNext    = "next"
	ActionPrev    = "prev"
	ActionZoomIn  = "zoom-in"
	ActionZoomOut = "zoom-out"
	ActionRotate  = "rotate"
	ActionReload  = "reload"
	ActionClose   = "close"
	ActionUnlock  = "unlock"
)

type ViewerPageVModel struct {
	Document   model.Document
	Session    viewer.Snapshot
	Strategies []viewer.StrategyKind
	Outcome    viewer.Outcome
	Prompt     *viewer.Prompt
	// Message is displayed above the viewer, ie a declined purchase
	Message   string
	Anonymous bool

	RefreshRate int
	Routes      *route.Routes
}

func (m ViewerPageVModel) Title() string {
	if title := m.Document.Title(); title != "" {
		return title
	}

	return m.Document.FileName()
}

func (m ViewerPageVModel) ActionURL(action string) templ.SafeURL {
	return templ.SafeURL(m.Routes.Action(m.Session.ID, action))
}

func (m ViewerPageVModel) JumpURL() templ.SafeURL {
	return templ.SafeURL(m.Routes.Jump(m.Session.ID))
}

func (m ViewerPageVModel) ConfirmURL() templ.SafeURL {
	return templ.SafeURL(m.Routes.ViewerConfirm(m.Session.ID))
}

func (m ViewerPageVModel) PurchaseURL() templ.SafeURL {
	return templ.SafeURL(m.Routes.ViewerPurchase(m.Session.ID))
}

func (m ViewerPageVModel) ViewerURL() templ.SafeURL {
	return templ.SafeURL(m.Routes.Viewer(m.Document.ID()))
}

func (m ViewerPageVModel) LoginURL() templ.SafeURL {
	return templ.SafeURL(m.Routes.Login(m.Routes.Viewer(m.Document.ID())))
}

func (m ViewerPageVModel) StrategyURL(kind viewer.StrategyKind) templ.SafeURL {
	return templ.SafeURL(m.Routes.Viewer(m.Document.ID()) + "?" + ParamStrategy + "=" + url.QueryEscape(string(kind)))
}

func (m ViewerPageVModel) Loading() bool {
	return m.Session.State == viewer.StateLoading
}

func (m ViewerPageVModel) LoadFailed() bool {
	return m.Session.State == viewer.StateLoadError
}

func (m ViewerPageVModel) Paginated() bool {
	return m.Session.PageCount > 0
}

func (m ViewerPageVModel) Embeddable() bool {
	return m.Outcome.EmbedURL != "" && m.Outcome.Kind != viewer.StrategyDownload
}

// CanUnlock returns true when the unlock call-to-action is displayed:
// the preview is actually restricted and no prompt is already shown.
func (m ViewerPageVModel) CanUnlock() bool {
	return m.Prompt == nil && m.Session.Allows(viewer.ActionUnlock)
}

func (m ViewerPageVModel) CanPurchase() bool {
	return m.Session.Allows(viewer.ActionPurchase)
}

func ViewerPage(vmodel ViewerPageVModel) templ.Component {
	var head []templ.Component
	if vmodel.RefreshRate > 0 {
		head = append(head, commonComp.Refresh(vmodel.RefreshRate))
	}

	return commonComp.Page(vmodel.Title(), commonComp.HTML(func(h *commonComp.Writer) {
		h.Raw(`<section class="viewer">`)

		viewerHeader(h, vmodel)

		if vmodel.Message != "" {
			h.Element("p", vmodel.Message, "class", "message", "role", "alert")
		}

		if vmodel.Loading() {
			h.Element("p", "Loading the document...", "class", "loading")
		} else {
			if vmodel.Prompt != nil {
				unlockPrompt(h, vmodel)
			}

			if len(vmodel.Strategies) > 0 {
				strategyNav(h, vmodel.Strategies, vmodel.Outcome.Kind, vmodel.StrategyURL)
			}

			if vmodel.Paginated() {
				toolbar(h, vmodel)
			}

			if vmodel.Outcome.Error != "" {
				h.Element("p", vmodel.Outcome.Error, "class", "error")
			}

			if vmodel.Embeddable() {
				embed(h, vmodel)
			}
		}

		footer(h, vmodel)

		h.Raw("</section>")
	}), head...)
}

func viewerHeader(h *commonComp.Writer, vmodel ViewerPageVModel) {
	h.Raw("<header>")
	h.Link(templ.SafeURL(vmodel.Routes.Home()), "Documents")
	h.Element("h1", vmodel.Title())

	if !vmodel.Session.HasFullAccess {
		h.Element("p", commonComp.FormatPrice(vmodel.Document.Price()), "class", "price")
	}

	h.Raw("</header>")
}

func unlockPrompt(h *commonComp.Writer, vmodel ViewerPageVModel) {
	prompt := vmodel.Prompt

	h.Raw(`<form class="unlock" method="post"`)
	h.URL("action", vmodel.ConfirmURL())
	h.Raw("><p>The preview of ")
	h.Element("strong", prompt.Title)
	h.Textf(" is limited to %d pages. Unlock the whole document for %s.", prompt.PreviewLimit, commonComp.FormatPrice(prompt.Price))
	h.Raw("</p>")

	if vmodel.Anonymous {
		loginNotice(h, vmodel)
	} else {
		h.Raw(`<button type="submit">Purchase</button>`)
	}

	h.Link(vmodel.ViewerURL(), "Continue the preview")
	h.Raw("</form>")
}

func loginNotice(h *commonComp.Writer, vmodel ViewerPageVModel) {
	h.Raw("<p>You must be ")
	h.Link(vmodel.LoginURL(), "logged in")
	h.Raw(" to purchase this document.</p>")
}

func strategyNav(h *commonComp.Writer, strategies []viewer.StrategyKind, current viewer.StrategyKind, strategyURL func(viewer.StrategyKind) templ.SafeURL) {
	h.Raw(`<nav class="strategies">`)

	for _, kind := range strategies {
		if kind == current {
			h.Link(strategyURL(kind), string(kind), "aria-current", "true")
		} else {
			h.Link(strategyURL(kind), string(kind))
		}
	}

	h.Raw("</nav>")
}

func toolbar(h *commonComp.Writer, vmodel ViewerPageVModel) {
	session := vmodel.Session

	h.Raw(`<div class="toolbar">`)
	h.PostButton(vmodel.ActionURL(ActionPrev), "Previous")

	h.Raw(`<form method="post"`)
	h.URL("action", vmodel.JumpURL())
	h.Raw(">")
	h.Open("input",
		"type", "number",
		"name", "page",
		"min", "1",
		"max", strconv.Itoa(session.PageCount),
		"value", strconv.Itoa(session.CurrentPage),
	)
	h.Element("span", fmt.Sprintf("/ %d", session.PageCount))
	h.Raw(`<button type="submit">Go</button></form>`)

	h.PostButton(vmodel.ActionURL(ActionNext), "Next")
	h.PostButton(vmodel.ActionURL(ActionZoomOut), "-")
	h.PostButton(vmodel.ActionURL(ActionZoomIn), "+")
	h.PostButton(vmodel.ActionURL(ActionRotate), "Rotate")
	h.Raw("</div>")

	if session.PreviewLimited {
		h.Element("p", fmt.Sprintf("Preview limited to the first %d pages.", session.PreviewLimit), "class", "preview")
	}
}

func embed(h *commonComp.Writer, vmodel ViewerPageVModel) {
	style := fmt.Sprintf("transform: scale(%g) rotate(%ddeg);", vmodel.Session.Zoom, vmodel.Session.Rotation)
	embedURL := templ.URL(vmodel.Outcome.EmbedURL)

	h.Open("div", "class", "document", "style", style)

	if vmodel.Outcome.Kind == viewer.StrategyImage {
		h.Raw("<img")
		h.URL("src", embedURL)
		h.Attr("alt", vmodel.Title())
		h.Raw(">")
	} else {
		h.Raw("<iframe")
		h.URL("src", embedURL)
		h.Attr("title", vmodel.Title())
		h.Raw("></iframe>")
	}

	h.Raw("</div>")
}

func footer(h *commonComp.Writer, vmodel ViewerPageVModel) {
	h.Raw(`<footer class="actions">`)

	if vmodel.CanUnlock() {
		h.PostButton(vmodel.ActionURL(ActionUnlock), "Unlock the document")
	}

	if vmodel.CanPurchase() {
		if vmodel.Anonymous {
			loginNotice(h, vmodel)
		} else {
			h.PostButton(vmodel.PurchaseURL(), "Purchase the document for "+commonComp.FormatPrice(vmodel.Document.Price()))
		}
	}

	if vmodel.LoadFailed() {
		h.PostButton(vmodel.ActionURL(ActionReload), "Retry")
	}

	if vmodel.Session.Allows(viewer.ActionDownload) {
		h.Link(templ.SafeURL(vmodel.Routes.Download(vmodel.Document.ID())), "Download", "download", "")
	}

	h.PostButton(vmodel.ActionURL(ActionClose), "Close")
	h.Raw("</footer>")
}
