package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bornholm/folio/internal/adapter/cache"
	gormAdapter "github.com/bornholm/folio/internal/adapter/gorm"
	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/core/service"
	httpCtx "github.com/bornholm/folio/internal/http/context"
	"github.com/bornholm/folio/internal/http/route"
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/ncruces/go-sqlite3/embed"
)

type staticSource struct {
	content map[string][]byte
}

func (s *staticSource) Open(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	data, exists := s.content[u.String()]
	if !exists {
		return nil, errors.WithStack(port.ErrNotFound)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *staticSource) SupportedSchemes() []string {
	return []string{"https"}
}

// textPaginator reads documents whose content is "pages:<n>"
type textPaginator struct{}

func (p *textPaginator) PageCount(ctx context.Context, r io.ReadSeeker) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	count, err := strconv.Atoi(strings.TrimPrefix(string(data), "pages:"))
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

func (p *textPaginator) ExtractPage(ctx context.Context, r io.ReadSeeker, page int, w io.Writer) error {
	_, err := fmt.Fprintf(w, "page:%d", page)
	return errors.WithStack(err)
}

type approvingGateway struct{}

func (g *approvingGateway) Purchase(ctx context.Context, req port.PurchaseRequest) (*port.PurchaseConfirmation, error) {
	return &port.PurchaseConfirmation{Reference: "ref-" + string(req.DocumentID)}, nil
}

func newTestHandler(t *testing.T, user model.User, doc model.Document, content []byte) http.Handler {
	t.Helper()

	db, err := gorm.Open(gormlite.Open(filepath.Join(t.TempDir(), "api.sqlite")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	store := gormAdapter.NewStore(db)

	if err := store.SaveDocument(context.Background(), doc); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	manager := service.NewViewerManager(
		cache.NewDocumentStore(store, 10, time.Minute),
		cache.NewAccessStore(store, 10, time.Minute),
		&staticSource{content: map[string][]byte{doc.URL().String(): content}},
		&textPaginator{},
		&approvingGateway{},
	)

	handler := NewHandler(manager, route.New("/"), nil)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r.WithContext(httpCtx.SetUser(r.Context(), user)))
	})
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("%+v", errors.WithStack(err))
		}

		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	res := httptest.NewRecorder()

	handler.ServeHTTP(res, req)

	return res
}

func decode[T any](t *testing.T, res *httptest.ResponseRecorder) T {
	t.Helper()

	var value T
	if err := json.Unmarshal(res.Body.Bytes(), &value); err != nil {
		t.Fatalf("could not decode response '%s': %+v", res.Body.String(), errors.WithStack(err))
	}

	return value
}

func TestDownloadRequiresPurchase(t *testing.T) {
	u, _ := url.Parse("https://cdn.example.com/book.pdf")

	doc, err := model.NewDocument(u, model.WithDocumentID("book"), model.WithDocumentPreview(2), model.WithDocumentPrice(900, "EUR"))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	user := model.NewUser("basic", "alice", "Alice")
	handler := newTestHandler(t, user, doc, []byte("pages:10"))

	res := doRequest(t, handler, http.MethodGet, "/documents/book/download", nil)
	if e, g := http.StatusPaymentRequired, res.Code; e != g {
		t.Fatalf("download before purchase: expected status '%v', got '%v'", e, g)
	}

	if e, g := "/viewer/book", decode[ErrorResponse](t, res).UnlockURL; e != g {
		t.Errorf("res.UnlockURL: expected '%v', got '%v'", e, g)
	}

	res = doRequest(t, handler, http.MethodPost, "/sessions", OpenSessionRequest{DocumentID: "book"})
	if e, g := http.StatusCreated, res.Code; e != g {
		t.Fatalf("open session: expected status '%v', got '%v': %s", e, g, res.Body.String())
	}

	sessionID := decode[SessionResponse](t, res).Session.ID

	res = doRequest(t, handler, http.MethodGet, "/sessions/"+string(sessionID)+"?wait=5s", nil)
	if e, g := "ready", string(decode[SessionResponse](t, res).Session.State); e != g {
		t.Fatalf("session state: expected '%v', got '%v'", e, g)
	}

	res = doRequest(t, handler, http.MethodPost, "/sessions/"+string(sessionID)+"/jump", JumpToPageRequest{Page: 5})
	if e, g := http.StatusOK, res.Code; e != g {
		t.Fatalf("jump: expected status '%v', got '%v'", e, g)
	}

	nav := decode[NavigationResponse](t, res)
	if !nav.Navigation.Blocked {
		t.Errorf("nav.Navigation.Blocked: expected true, got false")
	}

	if nav.Prompt == nil {
		t.Fatalf("nav.Prompt: expected a prompt, got nil")
	}

	if e, g := int64(900), nav.Prompt.Price.Amount; e != g {
		t.Errorf("nav.Prompt.Price.Amount: expected '%v', got '%v'", e, g)
	}

	res = doRequest(t, handler, http.MethodGet, "/sessions/"+string(sessionID)+"/page?page=5", nil)
	if e, g := http.StatusPaymentRequired, res.Code; e != g {
		t.Errorf("page 5 before purchase: expected status '%v', got '%v'", e, g)
	}

	res = doRequest(t, handler, http.MethodPost, "/sessions/"+string(sessionID)+"/unlock/confirm", nil)
	if e, g := http.StatusOK, res.Code; e != g {
		t.Fatalf("confirm purchase: expected status '%v', got '%v': %s", e, g, res.Body.String())
	}

	if !decode[SessionResponse](t, res).Session.HasFullAccess {
		t.Errorf("session.HasFullAccess: expected true after purchase")
	}

	res = doRequest(t, handler, http.MethodGet, "/documents/book/access", nil)
	if !decode[GetAccessResponse](t, res).HasFullAccess {
		t.Errorf("access.HasFullAccess: expected true after purchase")
	}

	res = doRequest(t, handler, http.MethodGet, "/sessions/"+string(sessionID)+"/page?page=5", nil)
	if e, g := http.StatusOK, res.Code; e != g {
		t.Errorf("page 5 after purchase: expected status '%v', got '%v'", e, g)
	}

	if e, g := "page:5", res.Body.String(); e != g {
		t.Errorf("page 5: expected '%v', got '%v'", e, g)
	}

	res = doRequest(t, handler, http.MethodGet, "/documents/book/download", nil)
	if e, g := http.StatusOK, res.Code; e != g {
		t.Fatalf("download after purchase: expected status '%v', got '%v'", e, g)
	}

	if e, g := "pages:10", res.Body.String(); e != g {
		t.Errorf("download body: expected '%v', got '%v'", e, g)
	}

	if !strings.HasPrefix(res.Header().Get("Content-Disposition"), "attachment") {
		t.Errorf("Content-Disposition: expected an attachment, got '%s'", res.Header().Get("Content-Disposition"))
	}
}

func TestShortDocumentPurchase(t *testing.T) {
	u, _ := url.Parse("https://cdn.example.com/short.pdf")

	doc, err := model.NewDocument(u, model.WithDocumentID("short"), model.WithDocumentPreview(30), model.WithDocumentPrice(900, "EUR"))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	user := model.NewUser("basic", "alice", "Alice")
	handler := newTestHandler(t, user, doc, []byte("pages:10"))

	res := doRequest(t, handler, http.MethodPost, "/sessions", OpenSessionRequest{DocumentID: "short"})
	if e, g := http.StatusCreated, res.Code; e != g {
		t.Fatalf("open session: expected status '%v', got '%v'", e, g)
	}

	sessionID := decode[SessionResponse](t, res).Session.ID

	res = doRequest(t, handler, http.MethodGet, "/sessions/"+string(sessionID)+"?wait=5s", nil)

	session := decode[SessionResponse](t, res)
	if e, g := "", session.Links.Unlock; e != g {
		t.Errorf("links.Unlock: expected '%v', got '%v'", e, g)
	}

	if e, g := "/api/v1/sessions/"+string(sessionID)+"/purchase", session.Links.Purchase; e != g {
		t.Errorf("links.Purchase: expected '%v', got '%v'", e, g)
	}

	res = doRequest(t, handler, http.MethodPost, "/sessions/"+string(sessionID)+"/unlock", nil)
	if e, g := http.StatusOK, res.Code; e != g {
		t.Fatalf("request unlock: expected status '%v', got '%v'", e, g)
	}

	if prompt := decode[UnlockResponse](t, res).Prompt; prompt != nil {
		t.Errorf("unlock.Prompt: expected nil, got '%v'", prompt)
	}

	res = doRequest(t, handler, http.MethodPost, "/sessions/"+string(sessionID)+"/unlock/confirm", nil)
	if e, g := http.StatusConflict, res.Code; e != g {
		t.Errorf("confirm without prompt: expected status '%v', got '%v'", e, g)
	}

	res = doRequest(t, handler, http.MethodPost, "/sessions/"+string(sessionID)+"/purchase", nil)
	if e, g := http.StatusOK, res.Code; e != g {
		t.Fatalf("purchase: expected status '%v', got '%v': %s", e, g, res.Body.String())
	}

	if !decode[SessionResponse](t, res).Session.HasFullAccess {
		t.Errorf("session.HasFullAccess: expected true after purchase")
	}

	res = doRequest(t, handler, http.MethodGet, "/documents/short/download", nil)
	if e, g := http.StatusOK, res.Code; e != g {
		t.Errorf("download after purchase: expected status '%v', got '%v'", e, g)
	}
}

func TestAnonymousPurchase(t *testing.T) {
	u, _ := url.Parse("https://cdn.example.com/book.pdf")

	doc, err := model.NewDocument(u, model.WithDocumentID("book"), model.WithDocumentPreview(2))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	user := model.NewAnonymousUser(model.NewAnonymousUserID())
	handler := newTestHandler(t, user, doc, []byte("pages:10"))

	res := doRequest(t, handler, http.MethodPost, "/sessions", OpenSessionRequest{DocumentID: "book"})
	if e, g := http.StatusCreated, res.Code; e != g {
		t.Fatalf("open session: expected status '%v', got '%v'", e, g)
	}

	sessionID := decode[SessionResponse](t, res).Session.ID

	res = doRequest(t, handler, http.MethodPost, "/sessions/"+string(sessionID)+"/unlock/confirm", nil)
	if e, g := http.StatusUnauthorized, res.Code; e != g {
		t.Errorf("confirm purchase: expected status '%v', got '%v'", e, g)
	}

	res = doRequest(t, handler, http.MethodGet, "/sessions/unknown", nil)
	if e, g := http.StatusNotFound, res.Code; e != g {
		t.Errorf("unknown session: expected status '%v', got '%v'", e, g)
	}
}

func TestInlineContentType(t *testing.T) {
	type testCase struct {
		URL                 string
		Content             []byte
		ExpectedContentType string
	}

	testCases := []testCase{
		{
			URL:                 "https://cdn.example.com/cover.svg",
			Content:             []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"></svg>`),
			ExpectedContentType: "image/svg+xml",
		},
		{
			URL:                 "https://cdn.example.com/cover.webp",
			Content:             append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), make([]byte, 24)...),
			ExpectedContentType: "image/webp",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.URL, func(t *testing.T) {
			u, _ := url.Parse(tc.URL)

			doc, err := model.NewDocument(u, model.WithDocumentID("cover"))
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			handler := newTestHandler(t, model.NewUser("basic", "alice", "Alice"), doc, tc.Content)

			res := doRequest(t, handler, http.MethodPost, "/sessions", OpenSessionRequest{DocumentID: "cover"})
			if e, g := http.StatusCreated, res.Code; e != g {
				t.Fatalf("open session: expected status '%v', got '%v': %s", e, g, res.Body.String())
			}

			sessionID := decode[SessionResponse](t, res).Session.ID

			res = doRequest(t, handler, http.MethodGet, "/sessions/"+string(sessionID)+"?wait=5s", nil)
			if e, g := "ready", string(decode[SessionResponse](t, res).Session.State); e != g {
				t.Fatalf("session state: expected '%v', got '%v'", e, g)
			}

			res = doRequest(t, handler, http.MethodGet, "/sessions/"+string(sessionID)+"/content", nil)
			if e, g := http.StatusOK, res.Code; e != g {
				t.Fatalf("content: expected status '%v', got '%v': %s", e, g, res.Body.String())
			}

			if e, g := tc.ExpectedContentType, res.Header().Get("Content-Type"); e != g {
				t.Errorf("Content-Type: expected '%v', got '%v'", e, g)
			}
		})
	}
}
