package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/core/viewer"
	"github.com/bornholm/folio/internal/markdown"
	"github.com/bornholm/folio/internal/metrics"
	"github.com/bornholm/go-x/slogx"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
)

var (
	ErrPurchaseRequired = errors.New("purchase required")
	ErrNotText          = errors.New("document is not a text document")
)

type ViewerManagerOptions struct {
	PreviewLimit    int
	SessionTTL      time.Duration
	MaxSessions     int
	LoadTimeout     time.Duration
	MaxDocumentSize int64

	OfficeViewerURL   string
	DocumentViewerURL string

	// Renderer converts office documents to PDF, nil disables local rendering
	Renderer port.DocumentRenderer
}

type ViewerManagerOptionFunc func(opts *ViewerManagerOptions)

func NewViewerManagerOptions(funcs ...ViewerManagerOptionFunc) *ViewerManagerOptions {
	opts := &ViewerManagerOptions{
		PreviewLimit:      viewer.DefaultPreviewPageLimit,
		SessionTTL:        time.Hour,
		MaxSessions:       10000,
		LoadTimeout:       viewer.DefaultLoadTimeout,
		MaxDocumentSize:   viewer.DefaultMaxDocumentSize,
		OfficeViewerURL:   viewer.DefaultOfficeViewerURL,
		DocumentViewerURL: viewer.DefaultDocumentViewerURL,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

func WithViewerManagerPreviewLimit(limit int) ViewerManagerOptionFunc {
	return func(opts *ViewerManagerOptions) {
		opts.PreviewLimit = limit
	}
}

func WithViewerManagerSessions(maxSessions int, ttl time.Duration) ViewerManagerOptionFunc {
	return func(opts *ViewerManagerOptions) {
		opts.MaxSessions = maxSessions
		opts.SessionTTL = ttl
	}
}

func WithViewerManagerLoadTimeout(timeout time.Duration) ViewerManagerOptionFunc {
	return func(opts *ViewerManagerOptions) {
		opts.LoadTimeout = timeout
	}
}

func WithViewerManagerMaxDocumentSize(size int64) ViewerManagerOptionFunc {
	return func(opts *ViewerManagerOptions) {
		opts.MaxDocumentSize = size
	}
}

func WithViewerManagerExternalViewers(officeViewerURL, documentViewerURL string) ViewerManagerOptionFunc {
	return func(opts *ViewerManagerOptions) {
		opts.OfficeViewerURL = officeViewerURL
		opts.DocumentViewerURL = documentViewerURL
	}
}

func WithViewerManagerRenderer(renderer port.DocumentRenderer) ViewerManagerOptionFunc {
	return func(opts *ViewerManagerOptions) {
		opts.Renderer = renderer
	}
}

// ViewerManager owns the viewer sessions and is the boundary between
// them and the stores, the document sources and the payment gateway.
type ViewerManager struct {
	documents port.DocumentStore
	access    port.AccessStore
	source    port.DocumentSource
	paginator port.Paginator
	gateway   port.PaymentGateway
	opts      *ViewerManagerOptions

	sessions *expirable.LRU[viewer.SessionID, *viewerSession]
}

type viewerSession struct {
	*viewer.Session

	owner  model.UserID
	unlock *viewer.UnlockFlow

	// Serializes local renderings
	renderMu sync.Mutex
}

func NewViewerManager(documents port.DocumentStore, access port.AccessStore, source port.DocumentSource, paginator port.Paginator, gateway port.PaymentGateway, funcs ...ViewerManagerOptionFunc) *ViewerManager {
	opts := NewViewerManagerOptions(funcs...)

	onEvict := func(id viewer.SessionID, session *viewerSession) {
		session.Close()
		metrics.ActiveSessions.Dec()
	}

	return &ViewerManager{
		documents: documents,
		access:    access,
		source:    source,
		paginator: paginator,
		gateway:   gateway,
		opts:      opts,
		sessions:  expirable.NewLRU(opts.MaxSessions, onEvict, opts.SessionTTL),
	}
}

func (m *ViewerManager) GetDocument(ctx context.Context, id model.DocumentID) (model.Document, error) {
	doc, err := m.documents.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return doc, nil
}

func (m *ViewerManager) QueryDocuments(ctx context.Context, opts port.QueryDocumentsOptions) ([]model.Document, int64, error) {
	documents, total, err := m.documents.QueryDocuments(ctx, opts)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return documents, total, nil
}

// HasFullAccess returns the purchase status of the document for the given user.
// Anonymous users never have full access.
func (m *ViewerManager) HasFullAccess(ctx context.Context, user model.User, documentID model.DocumentID) (bool, error) {
	if model.IsAnonymous(user) {
		return false, nil
	}

	hasFullAccess, err := m.access.HasFullAccess(ctx, user.ID(), documentID)
	if err != nil {
		return false, errors.WithStack(err)
	}

	return hasFullAccess, nil
}

// OpenSession creates a viewer session for the given document and starts
// loading it in the background.
func (m *ViewerManager) OpenSession(ctx context.Context, user model.User, documentID model.DocumentID) (*viewer.Session, error) {
	doc, err := m.documents.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	hasFullAccess, err := m.HasFullAccess(ctx, user, doc.ID())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	session := viewer.NewSession(
		m.source, m.paginator,
		viewer.WithPreviewLimit(m.opts.PreviewLimit),
		viewer.WithLoadTimeout(m.opts.LoadTimeout),
		viewer.WithMaxDocumentSize(m.opts.MaxDocumentSize),
	)

	ctx = slogx.WithAttrs(ctx,
		slog.String("session", string(session.ID())),
		slog.String("document", string(doc.ID())),
		slog.String("user", model.UserString(user)),
	)

	vs := &viewerSession{
		Session: session,
		owner:   userID(user),
	}

	vs.unlock = viewer.NewUnlockFlow(session, m.purchase(user, session))

	vs.unlock.OnPrompt(func(prompt viewer.Prompt) {
		metrics.UnlockPrompts.Inc()
		slog.InfoContext(ctx, "purchase prompt presented", slog.Int("previewLimit", prompt.PreviewLimit))
	})

	session.OnAccessGranted(func() {
		slog.InfoContext(ctx, "session unlocked")
	})

	if err := m.load(ctx, session, doc, hasFullAccess); err != nil {
		return nil, errors.WithStack(err)
	}

	m.sessions.Add(session.ID(), vs)

	metrics.SessionsOpened.WithLabelValues(string(doc.Category())).Inc()
	metrics.ActiveSessions.Inc()

	if err := m.documents.IncrementViewCount(ctx, doc.ID()); err != nil {
		slog.WarnContext(ctx, "could not increment view count", slogx.Error(err))
	}

	slog.DebugContext(ctx, "viewer session opened")

	return session, nil
}

// GetSession returns the session if it exists and belongs to the user.
// Sessions of other users are reported as not found.
func (m *ViewerManager) GetSession(ctx context.Context, user model.User, id viewer.SessionID) (*viewer.Session, error) {
	vs, err := m.getSession(user, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return vs.Session, nil
}

// CloseSession abandons the session, any in-flight load included.
func (m *ViewerManager) CloseSession(ctx context.Context, user model.User, id viewer.SessionID) error {
	if _, err := m.getSession(user, id); err != nil {
		return errors.WithStack(err)
	}

	m.sessions.Remove(id)

	slog.DebugContext(ctx, "viewer session closed", slog.String("session", string(id)))

	return nil
}

// ReloadSession explicitly restarts the load of the session document,
// typically after a load failure.
func (m *ViewerManager) ReloadSession(ctx context.Context, user model.User, id viewer.SessionID) (*viewer.Session, error) {
	vs, err := m.getSession(user, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	current := vs.Document()
	if current == nil {
		return nil, errors.WithStack(viewer.ErrNotReady)
	}

	doc, err := m.documents.GetDocumentByID(ctx, current.ID())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	hasFullAccess, err := m.HasFullAccess(ctx, user, doc.ID())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := m.load(ctx, vs.Session, doc, hasFullAccess || vs.HasFullAccess()); err != nil {
		return nil, errors.WithStack(err)
	}

	return vs.Session, nil
}

func (m *ViewerManager) load(ctx context.Context, session *viewer.Session, doc model.Document, hasFullAccess bool) error {
	if err := session.Load(doc, hasFullAccess); err != nil {
		return errors.WithStack(err)
	}

	ctx = context.WithoutCancel(ctx)

	go func() {
		state, err := session.Wait(ctx)
		if err != nil {
			return
		}

		if state == viewer.StateLoadError {
			metrics.LoadFailures.WithLabelValues(string(doc.Category())).Inc()
			slog.WarnContext(ctx, "document could not be loaded")
		}
	}()

	return nil
}

func (m *ViewerManager) NextPage(ctx context.Context, user model.User, id viewer.SessionID) (viewer.Navigation, *viewer.Prompt, error) {
	return m.navigate(ctx, user, id, (*viewer.Session).NextPage)
}

func (m *ViewerManager) PrevPage(ctx context.Context, user model.User, id viewer.SessionID) (viewer.Navigation, *viewer.Prompt, error) {
	return m.navigate(ctx, user, id, (*viewer.Session).PrevPage)
}

func (m *ViewerManager) JumpToPage(ctx context.Context, user model.User, id viewer.SessionID, page int) (viewer.Navigation, *viewer.Prompt, error) {
	return m.navigate(ctx, user, id, func(s *viewer.Session) (viewer.Navigation, error) {
		return s.JumpToPage(page)
	})
}

// navigate applies the page transition. A transition blocked by the
// preview policy is not an error: the pending purchase prompt is returned.
func (m *ViewerManager) navigate(ctx context.Context, user model.User, id viewer.SessionID, fn func(s *viewer.Session) (viewer.Navigation, error)) (viewer.Navigation, *viewer.Prompt, error) {
	vs, err := m.getSession(user, id)
	if err != nil {
		return viewer.Navigation{}, nil, errors.WithStack(err)
	}

	nav, err := fn(vs.Session)
	if err != nil {
		return nav, nil, errors.WithStack(err)
	}

	if !nav.Blocked {
		return nav, nil, nil
	}

	metrics.PreviewBlocks.Inc()

	return nav, vs.unlock.Pending(), nil
}

// RenderPage returns a single page document, zero meaning the current page.
// Pages beyond the preview limit of a locked document are refused with
// viewer.ErrPreviewLimitExceeded and the purchase prompt is raised.
func (m *ViewerManager) RenderPage(ctx context.Context, user model.User, id viewer.SessionID, page int) ([]byte, error) {
	vs, err := m.getSession(user, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	data, err := vs.RenderPage(ctx, page)
	if err != nil {
		if errors.Is(err, viewer.ErrPreviewLimitExceeded) {
			metrics.PreviewBlocks.Inc()
			vs.unlock.RequestUnlock()
		}

		return nil, errors.WithStack(err)
	}

	metrics.RenderedPages.Inc()

	return data, nil
}

// RenderLocal converts the office document of the session to a paginated
// rendition with the local renderer, then returns the requested page.
func (m *ViewerManager) RenderLocal(ctx context.Context, user model.User, id viewer.SessionID, page int) ([]byte, error) {
	vs, err := m.getSession(user, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := m.attachRendition(ctx, vs); err != nil {
		return nil, errors.WithStack(err)
	}

	data, err := m.RenderPage(ctx, user, id, page)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

func (m *ViewerManager) attachRendition(ctx context.Context, vs *viewerSession) error {
	vs.renderMu.Lock()
	defer vs.renderMu.Unlock()

	if vs.HasRendition() {
		return nil
	}

	doc, content, err := vs.Content()
	if err != nil {
		return errors.WithStack(err)
	}

	if !m.localRendering(doc) {
		return errors.Wrapf(viewer.ErrStrategyUnavailable, "no local renderer available for '%s' documents", doc.Category())
	}

	fileName := doc.FileName()
	if fileName == "" {
		fileName = "document" + doc.Extension()
	}

	start := time.Now()

	reader, err := m.opts.Renderer.Render(ctx, fileName, bytes.NewReader(content))
	if err != nil {
		return errors.Wrap(err, "could not render document")
	}

	defer reader.Close()

	rendition, err := io.ReadAll(reader)
	if err != nil {
		return errors.Wrap(err, "could not read rendition")
	}

	metrics.LocalRenderDuration.Observe(time.Since(start).Seconds())

	pageCount, err := m.paginator.PageCount(ctx, bytes.NewReader(rendition))
	if err != nil {
		return errors.Wrap(err, "could not count rendition pages")
	}

	if err := vs.AttachRendition(rendition, pageCount); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

type TextContent struct {
	Document model.Document
	Title    string
	// HTML is set for markdown documents
	HTML []byte
	// Plain is set for the other text documents
	Plain string
}

// RenderText returns the content of a text session, rendered to
// HTML for markdown documents.
func (m *ViewerManager) RenderText(ctx context.Context, user model.User, id viewer.SessionID) (*TextContent, error) {
	vs, err := m.getSession(user, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	doc, content, err := vs.Content()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if doc.Category() != model.CategoryText {
		return nil, errors.WithStack(ErrNotText)
	}

	text := &TextContent{
		Document: doc,
		Title:    doc.Title(),
	}

	switch doc.Extension() {
	case ".md", ".markdown":
		rendered, err := markdown.Render(content)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		text.HTML = rendered.HTML
		if rendered.Title != "" {
			text.Title = rendered.Title
		}
	default:
		text.Plain = string(content)
	}

	return text, nil
}

// InlineContent returns the full content of an image or text session.
// Documents of other categories are only exposed page by page.
func (m *ViewerManager) InlineContent(ctx context.Context, user model.User, id viewer.SessionID) (model.Document, []byte, error) {
	vs, err := m.getSession(user, id)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	doc, content, err := vs.Content()
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	switch doc.Category() {
	case model.CategoryImage, model.CategoryText:
		return doc, content, nil
	default:
		return nil, nil, errors.Wrapf(viewer.ErrStrategyUnavailable, "'%s' documents have no inline content", doc.Category())
	}
}

// SelectStrategy activates the given rendering strategy of the session.
// The external viewers templates and the local rendering availability
// are filled from the manager options.
func (m *ViewerManager) SelectStrategy(ctx context.Context, user model.User, id viewer.SessionID, kind viewer.StrategyKind, links viewer.Links) (viewer.Outcome, error) {
	vs, err := m.getSession(user, id)
	if err != nil {
		return viewer.Outcome{}, errors.WithStack(err)
	}

	links.OfficeViewerURL = m.opts.OfficeViewerURL
	links.DocumentViewerURL = m.opts.DocumentViewerURL

	if doc := vs.Document(); doc != nil {
		links.LocalRendering = m.localRendering(doc)
		if links.PublicURL == nil {
			links.PublicURL = publicURL(doc)
		}
	}

	outcome, err := vs.SelectStrategy(kind, links)
	if err != nil {
		return outcome, errors.WithStack(err)
	}

	metrics.StrategySelections.WithLabelValues(string(kind)).Inc()

	return outcome, nil
}

// Strategies returns the strategies the session document can be displayed with.
func (m *ViewerManager) Strategies(ctx context.Context, user model.User, id viewer.SessionID) ([]viewer.StrategyKind, error) {
	vs, err := m.getSession(user, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	doc := vs.Document()
	if doc == nil {
		return nil, errors.WithStack(viewer.ErrNotReady)
	}

	strategies := viewer.Strategies(doc.Category())
	if m.localRendering(doc) {
		last := len(strategies) - 1
		strategies = append(strategies[:last:last], viewer.StrategyLocal, strategies[last])
	}

	return strategies, nil
}

// RequestUnlock returns the pending purchase prompt of the session, nil
// when no preview restriction is left to lift: full access, a document
// shorter than the preview or a failed load.
func (m *ViewerManager) RequestUnlock(ctx context.Context, user model.User, id viewer.SessionID) (*viewer.Prompt, error) {
	vs, err := m.getSession(user, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if vs.Document() == nil {
		return nil, errors.WithStack(viewer.ErrNotReady)
	}

	return vs.unlock.RequestUnlock(), nil
}

// ConfirmPurchase submits the purchase of the session document. On success
// the grant is recorded and the session is unlocked without reloading.
func (m *ViewerManager) ConfirmPurchase(ctx context.Context, user model.User, id viewer.SessionID) error {
	if model.IsAnonymous(user) {
		return errors.WithStack(port.ErrUnauthenticated)
	}

	vs, err := m.getSession(user, id)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := vs.unlock.Confirm(ctx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// PurchaseDocument buys the session document when it is gated but entirely
// viewable within its preview, so that it can be downloaded.
func (m *ViewerManager) PurchaseDocument(ctx context.Context, user model.User, id viewer.SessionID) error {
	if model.IsAnonymous(user) {
		return errors.WithStack(port.ErrUnauthenticated)
	}

	vs, err := m.getSession(user, id)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := vs.unlock.Purchase(ctx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (m *ViewerManager) purchase(user model.User, session *viewer.Session) viewer.PurchaseFunc {
	return func(ctx context.Context) error {
		if model.IsAnonymous(user) {
			return errors.WithStack(port.ErrUnauthenticated)
		}

		doc := session.Document()
		if doc == nil {
			return errors.WithStack(viewer.ErrNotReady)
		}

		ctx = slogx.WithAttrs(ctx,
			slog.String("document", string(doc.ID())),
			slog.String("user", model.UserString(user)),
		)

		confirmation, err := m.gateway.Purchase(ctx, port.PurchaseRequest{
			UserID:     user.ID(),
			DocumentID: doc.ID(),
			Price:      doc.Price(),
		})
		if err != nil {
			var declined *port.PurchaseDeclinedError
			if errors.As(err, &declined) {
				metrics.Purchases.WithLabelValues(metrics.StatusDeclined).Inc()
				slog.InfoContext(ctx, "purchase declined", slog.String("message", declined.Message))
				return errors.WithStack(err)
			}

			metrics.Purchases.WithLabelValues(metrics.StatusFailed).Inc()

			return errors.Wrap(err, "could not submit purchase")
		}

		if err := m.access.GrantAccess(ctx, user.ID(), doc.ID(), confirmation.Reference); err != nil {
			metrics.Purchases.WithLabelValues(metrics.StatusFailed).Inc()
			slog.ErrorContext(ctx, "purchase confirmed but access could not be recorded", slog.String("reference", confirmation.Reference), slogx.Error(err))
			return errors.Wrap(err, "could not record purchase")
		}

		metrics.Purchases.WithLabelValues(metrics.StatusSucceeded).Inc()
		slog.InfoContext(ctx, "purchase confirmed", slog.String("reference", confirmation.Reference))

		return nil
	}
}

// Download opens the full byte stream of the document. Gated documents
// require a purchase.
func (m *ViewerManager) Download(ctx context.Context, user model.User, documentID model.DocumentID) (model.Document, io.ReadCloser, error) {
	doc, err := m.documents.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	if doc.Gated() {
		hasFullAccess, err := m.HasFullAccess(ctx, user, doc.ID())
		if err != nil {
			return nil, nil, errors.WithStack(err)
		}

		if !hasFullAccess {
			metrics.Downloads.WithLabelValues(metrics.StatusDenied).Inc()
			return doc, nil, errors.WithStack(ErrPurchaseRequired)
		}
	}

	reader, err := m.source.Open(ctx, doc.URL())
	if err != nil {
		metrics.Downloads.WithLabelValues(metrics.StatusFailed).Inc()
		return nil, nil, errors.WithStack(err)
	}

	metrics.Downloads.WithLabelValues(metrics.StatusSucceeded).Inc()

	return doc, reader, nil
}

func (m *ViewerManager) getSession(user model.User, id viewer.SessionID) (*viewerSession, error) {
	vs, exists := m.sessions.Get(id)
	if !exists || vs.owner != userID(user) {
		return nil, errors.Wrapf(port.ErrNotFound, "session '%s'", id)
	}

	// Refresh the session lifetime
	m.sessions.Add(id, vs)

	return vs, nil
}

func (m *ViewerManager) localRendering(doc model.Document) bool {
	if m.opts.Renderer == nil || !doc.Category().Office() {
		return false
	}

	return slices.Contains(m.opts.Renderer.SupportedExtensions(), doc.Extension())
}

// publicURL returns the document URL when external viewers can fetch it.
func publicURL(doc model.Document) *url.URL {
	u := doc.URL()
	if u == nil || !u.IsAbs() || u.Host == "" {
		return nil
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}

	return u
}

func userID(user model.User) model.UserID {
	if user == nil {
		return ""
	}

	return user.ID()
}
