package viewer

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/go-x/slogx"
	"github.com/pkg/errors"
	"github.com/rs/xid"
)

type SessionID string

func NewSessionID() SessionID {
	return SessionID(xid.New().String())
}

type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateLoadError State = "load-error"
	StateClosed    State = "closed"
)

type Action string

const (
	ActionNavigate Action = "navigate"
	ActionZoom     Action = "zoom"
	ActionRotate   Action = "rotate"
	ActionUnlock   Action = "unlock"
	ActionPurchase Action = "purchase"
	ActionDownload Action = "download"
)

const (
	MinZoom      = 0.5
	MaxZoom      = 3.0
	ZoomStep     = 0.25
	DefaultZoom  = 1.0
	RotationStep = 90
)

// Navigation is the result of a page transition
type Navigation struct {
	Page    int  `json:"page"`
	Moved   bool `json:"moved"`
	Blocked bool `json:"blocked"`
}

type Snapshot struct {
	ID             SessionID        `json:"id"`
	DocumentID     model.DocumentID `json:"documentId"`
	Category       model.Category   `json:"category"`
	State          State            `json:"state"`
	LoadError      string           `json:"loadError,omitempty"`
	CurrentPage    int              `json:"currentPage"`
	PageCount      int              `json:"pageCount,omitempty"`
	PreviewLimit   int              `json:"previewLimit"`
	PreviewLimited bool             `json:"previewLimited"`
	Zoom           float64          `json:"zoom"`
	Rotation       int              `json:"rotation"`
	Mode           StrategyKind     `json:"mode"`
	HasFullAccess  bool             `json:"hasFullAccess"`
	Actions        []Action         `json:"actions"`
}

// Session is the state of one open document view: the document load,
// the current page, zoom and rotation, and the cached access flag.
type Session struct {
	id        SessionID
	source    port.DocumentSource
	paginator port.Paginator
	opts      *SessionOptions

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.Mutex

	document      model.Document
	state         State
	loadErr       error
	generation    uint64
	cancelLoad    context.CancelFunc
	done          chan struct{}
	content       []byte
	paginated     []byte
	pageCount     int
	pages         map[int][]byte
	currentPage   int
	zoom          float64
	rotation      int
	mode          StrategyKind
	hasFullAccess bool
	previewLimit  int

	onUnlockRequired func()
	onAccessGranted  []func()
}

func NewSession(source port.DocumentSource, paginator port.Paginator, funcs ...SessionOptionFunc) *Session {
	opts := NewSessionOptions(funcs...)

	id := opts.ID
	if id == "" {
		id = NewSessionID()
	}

	ctx := slogx.WithAttrs(context.Background(), slog.String("session", string(id)))
	ctx, cancel := context.WithCancel(ctx)

	return &Session{
		id:          id,
		source:      source,
		paginator:   paginator,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		state:       StateIdle,
		currentPage: 1,
		zoom:        DefaultZoom,
		pages:       map[int][]byte{},
	}
}

func (s *Session) ID() SessionID {
	return s.id
}

func (s *Session) Document() model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.document
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Load starts loading the given document in the background. Any load still
// in flight is canceled and its result discarded.
func (s *Session) Load(doc model.Document, hasFullAccess bool) error {
	if doc == nil {
		return errors.New("document is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return errors.WithStack(ErrSessionClosed)
	}

	if s.cancelLoad != nil {
		s.cancelLoad()
	}

	s.generation++
	generation := s.generation

	loadCtx := slogx.WithAttrs(s.ctx, slog.String("document", string(doc.ID())))

	var cancel context.CancelFunc
	if s.opts.LoadTimeout > 0 {
		loadCtx, cancel = context.WithTimeout(loadCtx, s.opts.LoadTimeout)
	} else {
		loadCtx, cancel = context.WithCancel(loadCtx)
	}

	done := make(chan struct{})

	s.cancelLoad = cancel
	s.done = done
	s.document = doc
	s.state = StateLoading
	s.loadErr = nil
	s.content = nil
	s.paginated = nil
	s.pageCount = 0
	s.pages = map[int][]byte{}
	s.currentPage = 1
	s.zoom = DefaultZoom
	s.rotation = 0
	s.mode = DefaultStrategy(doc.Category())
	s.hasFullAccess = hasFullAccess
	s.previewLimit = s.opts.PreviewLimit
	if limit := doc.PreviewPageLimit(); limit > 0 {
		s.previewLimit = limit
	}

	go s.load(loadCtx, cancel, generation, doc, done)

	return nil
}

func (s *Session) load(ctx context.Context, cancel context.CancelFunc, generation uint64, doc model.Document, done chan struct{}) {
	defer close(done)
	defer cancel()

	start := time.Now()

	content, pageCount, err := s.fetch(ctx, doc)

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state == StateClosed {
		slog.DebugContext(ctx, "discarding superseded document load")
		return
	}

	s.cancelLoad = nil

	if err != nil {
		slog.ErrorContext(ctx, "could not load document", slogx.Error(err))
		s.state = StateLoadError
		s.loadErr = err
		return
	}

	slog.DebugContext(ctx, "document loaded", slog.Int("size", len(content)), slog.Int("pages", pageCount), slog.Duration("duration", time.Since(start)))

	s.content = content
	s.pageCount = pageCount
	if pageCount > 0 {
		s.paginated = content
	}
	s.state = StateReady
}

func (s *Session) fetch(ctx context.Context, doc model.Document) ([]byte, int, error) {
	reader, err := s.source.Open(ctx, doc.URL())
	if err != nil {
		return nil, 0, errors.Wrap(err, "could not open document source")
	}

	defer reader.Close()

	var r io.Reader = reader
	if s.opts.MaxDocumentSize > 0 {
		r = io.LimitReader(reader, s.opts.MaxDocumentSize+1)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, errors.Wrap(err, "could not read document")
	}

	if s.opts.MaxDocumentSize > 0 && int64(len(content)) > s.opts.MaxDocumentSize {
		return nil, 0, errors.Wrapf(ErrDocumentTooLarge, "document exceeds %d bytes", s.opts.MaxDocumentSize)
	}

	if !doc.Category().Paginated() {
		return content, 0, nil
	}

	pageCount, err := s.paginator.PageCount(ctx, bytes.NewReader(content))
	if err != nil {
		return nil, 0, errors.Wrap(err, "could not count document pages")
	}

	if pageCount < 1 {
		return nil, 0, errors.New("document has no pages")
	}

	return content, pageCount, nil
}

// Wait blocks until the current load is resolved or the context is done.
func (s *Session) Wait(ctx context.Context) (State, error) {
	for {
		s.mu.Lock()
		state, done := s.state, s.done
		s.mu.Unlock()

		if state != StateLoading || done == nil {
			return state, nil
		}

		select {
		case <-done:
		case <-ctx.Done():
			return state, errors.WithStack(ctx.Err())
		}
	}
}

// Close abandons any in-flight load without surfacing its result.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}

	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}

	s.cancel()

	s.state = StateClosed
	s.content = nil
	s.paginated = nil
	s.pages = nil
}

func (s *Session) NextPage() (Navigation, error) {
	return s.navigate(func(current int) int {
		return current + 1
	})
}

// PrevPage is never subject to the preview policy.
func (s *Session) PrevPage() (Navigation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assertPaginated(); err != nil {
		return Navigation{Page: s.currentPage}, errors.WithStack(err)
	}

	page := clamp(s.currentPage-1, 1, s.pageCount)
	moved := page != s.currentPage
	s.currentPage = page

	return Navigation{Page: page, Moved: moved}, nil
}

func (s *Session) JumpToPage(page int) (Navigation, error) {
	return s.navigate(func(current int) int {
		return page
	})
}

func (s *Session) navigate(target func(current int) int) (Navigation, error) {
	s.mu.Lock()

	if err := s.assertPaginated(); err != nil {
		nav := Navigation{Page: s.currentPage}
		s.mu.Unlock()
		return nav, errors.WithStack(err)
	}

	page := clamp(target(s.currentPage), 1, s.pageCount)

	decision := CanRenderPage(s.fullAccess(), page, s.previewLimit)
	if !decision.Allow {
		nav := Navigation{Page: s.currentPage, Blocked: true}
		onUnlockRequired := s.onUnlockRequired
		s.mu.Unlock()

		slog.DebugContext(s.ctx, "page blocked by preview policy", slog.Int("page", page), slog.Int("previewLimit", s.previewLimit))

		if onUnlockRequired != nil {
			onUnlockRequired()
		}

		return nav, nil
	}

	moved := page != s.currentPage
	s.currentPage = page
	nav := Navigation{Page: page, Moved: moved}

	s.mu.Unlock()

	return nav, nil
}

func (s *Session) ZoomIn() (float64, error) {
	return s.updateZoom(ZoomStep)
}

func (s *Session) ZoomOut() (float64, error) {
	return s.updateZoom(-ZoomStep)
}

func (s *Session) updateZoom(delta float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assertViewable(); err != nil {
		return s.zoom, errors.WithStack(err)
	}

	zoom := s.zoom + delta
	switch {
	case zoom < MinZoom:
		zoom = MinZoom
	case zoom > MaxZoom:
		zoom = MaxZoom
	}

	s.zoom = zoom

	return zoom, nil
}

func (s *Session) Rotate() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assertViewable(); err != nil {
		return s.rotation, errors.WithStack(err)
	}

	s.rotation = (s.rotation + RotationStep) % 360

	return s.rotation, nil
}

// RenderPage returns a standalone document containing the requested page,
// zero meaning the current page. The preview policy is re-evaluated.
func (s *Session) RenderPage(ctx context.Context, page int) ([]byte, error) {
	s.mu.Lock()

	if err := s.assertPaginated(); err != nil {
		s.mu.Unlock()
		return nil, errors.WithStack(err)
	}

	if page == 0 {
		page = s.currentPage
	}

	page = clamp(page, 1, s.pageCount)

	if decision := CanRenderPage(s.fullAccess(), page, s.previewLimit); !decision.Allow {
		s.mu.Unlock()
		return nil, errors.Wrapf(ErrPreviewLimitExceeded, "page %d", page)
	}

	if data, exists := s.pages[page]; exists {
		s.mu.Unlock()
		return data, nil
	}

	paginated := s.paginated
	generation := s.generation

	s.mu.Unlock()

	var buff bytes.Buffer
	if err := s.paginator.ExtractPage(ctx, bytes.NewReader(paginated), page, &buff); err != nil {
		return nil, errors.Wrapf(err, "could not extract page %d", page)
	}

	data := buff.Bytes()

	s.mu.Lock()
	if generation == s.generation && s.pages != nil {
		s.pages[page] = data
	}
	s.mu.Unlock()

	return data, nil
}

// Content returns the loaded document and its full byte stream.
func (s *Session) Content() (model.Document, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateClosed:
		return nil, nil, errors.WithStack(ErrSessionClosed)
	case StateIdle, StateLoading:
		return nil, nil, errors.WithStack(ErrNotReady)
	case StateLoadError:
		return nil, nil, errors.WithStack(ErrLoadFailed)
	}

	return s.document, s.content, nil
}

// AttachRendition switches a loaded non paginated document to a paginated
// rendition (office document converted to PDF). The preview policy then
// applies to the rendition pages.
func (s *Session) AttachRendition(rendition []byte, pageCount int) error {
	if pageCount < 1 {
		return errors.New("rendition has no pages")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assertViewable(); err != nil {
		return errors.WithStack(err)
	}

	if s.state != StateReady {
		return errors.WithStack(ErrNotReady)
	}

	s.paginated = rendition
	s.pageCount = pageCount
	s.pages = map[int][]byte{}
	s.currentPage = 1
	s.mode = StrategyLocal

	return nil
}

func (s *Session) HasRendition() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.paginated != nil && s.document != nil && !s.document.Category().Paginated()
}

// GrantAccess lifts the preview restriction without reloading the document.
// Access is never revoked for the lifetime of the session.
func (s *Session) GrantAccess() {
	s.mu.Lock()

	if s.hasFullAccess {
		s.mu.Unlock()
		return
	}

	s.hasFullAccess = true
	listeners := append([]func(){}, s.onAccessGranted...)

	s.mu.Unlock()

	slog.DebugContext(s.ctx, "full access granted")

	for _, fn := range listeners {
		fn()
	}
}

func (s *Session) HasFullAccess() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fullAccess()
}

func (s *Session) OnAccessGranted(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onAccessGranted = append(s.onAccessGranted, fn)
}

func (s *Session) onUnlock(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onUnlockRequired = fn
}

// PreviewLimited returns true when the viewer is actually restricted:
// a document shorter than the preview limit is entirely free to preview.
func (s *Session) PreviewLimited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.previewLimited()
}

func (s *Session) previewLimited() bool {
	return !s.fullAccess() && s.pageCount > 0 && s.pageCount > s.previewLimit
}

// Unlockable returns true when a purchase would lift an actual
// preview restriction of the loaded document.
func (s *Session) Unlockable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state == StateReady && s.previewLimited()
}

// Purchasable returns true when the loaded document is gated but entirely
// viewable within the preview, ie to purchase it for download.
func (s *Session) Purchasable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.purchasable()
}

func (s *Session) purchasable() bool {
	return s.state == StateReady && !s.fullAccess() && !s.previewLimited()
}

func (s *Session) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentPage
}

func (s *Session) Mode() StrategyKind {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mode
}

// Actions returns the actions available in the current state.
// A failed load only leaves the download action.
func (s *Session) Actions() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.actions()
}

func (s *Session) actions() []Action {
	switch s.state {
	case StateClosed, StateIdle:
		return []Action{}
	case StateLoadError:
		return []Action{ActionDownload}
	case StateLoading:
		return []Action{ActionZoom, ActionRotate, ActionDownload}
	}

	actions := make([]Action, 0, 5)
	if s.pageCount > 0 {
		actions = append(actions, ActionNavigate, ActionZoom, ActionRotate)
	}

	switch {
	case s.previewLimited():
		actions = append(actions, ActionUnlock)
	case s.purchasable():
		actions = append(actions, ActionPurchase)
	}

	actions = append(actions, ActionDownload)

	return actions
}

// Allows returns true when the action is available in the snapshot state
func (s Snapshot) Allows(action Action) bool {
	return slices.Contains(s.Actions, action)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := Snapshot{
		ID:             s.id,
		State:          s.state,
		CurrentPage:    s.currentPage,
		PageCount:      s.pageCount,
		PreviewLimit:   s.previewLimit,
		PreviewLimited: s.previewLimited(),
		Zoom:           s.zoom,
		Rotation:       s.rotation,
		Mode:           s.mode,
		HasFullAccess:  s.fullAccess(),
		Actions:        s.actions(),
	}

	if s.document != nil {
		snapshot.DocumentID = s.document.ID()
		snapshot.Category = s.document.Category()
	}

	if s.loadErr != nil {
		snapshot.LoadError = "the document could not be loaded"
		if errors.Is(s.loadErr, ErrDocumentTooLarge) {
			snapshot.LoadError = "the document is too large to be previewed"
		}
	}

	return snapshot
}

func (s *Session) fullAccess() bool {
	return s.hasFullAccess || (s.document != nil && !s.document.Gated())
}

func (s *Session) assertViewable() error {
	switch s.state {
	case StateClosed:
		return ErrSessionClosed
	case StateLoadError:
		return ErrLoadFailed
	case StateIdle:
		return ErrNotReady
	}

	return nil
}

func (s *Session) assertPaginated() error {
	switch s.state {
	case StateClosed:
		return ErrSessionClosed
	case StateIdle, StateLoading:
		return ErrNotReady
	case StateLoadError:
		return ErrLoadFailed
	}

	if s.pageCount < 1 {
		return ErrNotPaginated
	}

	return nil
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}

func (s *Session) PreviewLimit() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.previewLimit
}
