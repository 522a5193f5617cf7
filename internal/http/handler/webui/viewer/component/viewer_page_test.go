package component

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/viewer"
	"github.com/bornholm/folio/internal/http/route"
	"github.com/pkg/errors"
)

func renderViewerPage(t *testing.T, vmodel ViewerPageVModel) string {
	t.Helper()

	var sb strings.Builder

	if err := ViewerPage(vmodel).Render(context.Background(), &sb); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	return sb.String()
}

func newViewerPageVModel(t *testing.T, snapshot viewer.Snapshot) ViewerPageVModel {
	t.Helper()

	u, _ := url.Parse("https://cdn.example.com/book.pdf")

	doc, err := model.NewDocument(u, model.WithDocumentID("book"), model.WithDocumentTitle(`Tom & "Jerry"`), model.WithDocumentPreview(2), model.WithDocumentPrice(900, "EUR"))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	snapshot.ID = "s1"
	snapshot.DocumentID = doc.ID()

	return ViewerPageVModel{
		Document: doc,
		Session:  snapshot,
		Routes:   route.New("/"),
	}
}

func TestViewerPageActions(t *testing.T) {
	testCases := []struct {
		Name       string
		Snapshot   viewer.Snapshot
		Prompt     *viewer.Prompt
		Anonymous  bool
		Expected   []string
		Unexpected []string
	}{
		{
			Name: "preview limited",
			Snapshot: viewer.Snapshot{
				State: viewer.StateReady, CurrentPage: 1, PageCount: 10, PreviewLimit: 2, PreviewLimited: true, Zoom: 1,
				Actions: []viewer.Action{viewer.ActionNavigate, viewer.ActionZoom, viewer.ActionRotate, viewer.ActionUnlock, viewer.ActionDownload},
			},
			Expected: []string{
				"Unlock the document",
				"Preview limited to the first 2 pages.",
				`action="/viewer/sessions/s1/actions/unlock"`,
			},
			Unexpected: []string{"Purchase the document"},
		},
		{
			Name: "pending prompt",
			Snapshot: viewer.Snapshot{
				State: viewer.StateReady, CurrentPage: 2, PageCount: 10, PreviewLimit: 2, PreviewLimited: true, Zoom: 1,
				Actions: []viewer.Action{viewer.ActionNavigate, viewer.ActionZoom, viewer.ActionRotate, viewer.ActionUnlock, viewer.ActionDownload},
			},
			Prompt: &viewer.Prompt{Title: "Book", PreviewLimit: 2, Price: model.Price{Amount: 900, Currency: "EUR"}},
			Expected: []string{
				"Unlock the whole document for 9.00 EUR.",
				`action="/viewer/sessions/s1/unlock/confirm"`,
			},
			Unexpected: []string{"Unlock the document"},
		},
		{
			Name: "short document",
			Snapshot: viewer.Snapshot{
				State: viewer.StateReady, CurrentPage: 1, PageCount: 2, PreviewLimit: 30, Zoom: 1,
				Actions: []viewer.Action{viewer.ActionNavigate, viewer.ActionZoom, viewer.ActionRotate, viewer.ActionPurchase, viewer.ActionDownload},
			},
			Expected: []string{
				"Purchase the document for 9.00 EUR",
				`action="/viewer/sessions/s1/purchase"`,
			},
			Unexpected: []string{"Unlock", "Preview limited"},
		},
		{
			Name: "anonymous short document",
			Snapshot: viewer.Snapshot{
				State: viewer.StateReady, CurrentPage: 1, PageCount: 2, PreviewLimit: 30, Zoom: 1,
				Actions: []viewer.Action{viewer.ActionNavigate, viewer.ActionZoom, viewer.ActionRotate, viewer.ActionPurchase, viewer.ActionDownload},
			},
			Anonymous:  true,
			Expected:   []string{`href="/login?next=%2Fviewer%2Fbook"`},
			Unexpected: []string{"Unlock", "Purchase the document"},
		},
		{
			Name: "load failure",
			Snapshot: viewer.Snapshot{
				State: viewer.StateLoadError, CurrentPage: 1, Zoom: 1, LoadError: "the document could not be loaded",
				Actions: []viewer.Action{viewer.ActionDownload},
			},
			Expected:   []string{"Retry", "Download"},
			Unexpected: []string{"Unlock", "Purchase"},
		},
		{
			Name: "full access",
			Snapshot: viewer.Snapshot{
				State: viewer.StateReady, CurrentPage: 1, PageCount: 10, PreviewLimit: 2, Zoom: 1, HasFullAccess: true,
				Actions: []viewer.Action{viewer.ActionNavigate, viewer.ActionZoom, viewer.ActionRotate, viewer.ActionDownload},
			},
			Expected:   []string{"Download"},
			Unexpected: []string{"Unlock", "Purchase", "9.00 EUR"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			vmodel := newViewerPageVModel(t, tc.Snapshot)
			vmodel.Prompt = tc.Prompt
			vmodel.Anonymous = tc.Anonymous

			body := renderViewerPage(t, vmodel)

			for _, e := range tc.Expected {
				if !strings.Contains(body, e) {
					t.Errorf("body: expected '%s' in '%s'", e, body)
				}
			}

			for _, u := range tc.Unexpected {
				if strings.Contains(body, u) {
					t.Errorf("body: unexpected '%s' in '%s'", u, body)
				}
			}
		})
	}
}

func TestViewerPageEscaping(t *testing.T) {
	vmodel := newViewerPageVModel(t, viewer.Snapshot{State: viewer.StateReady, Zoom: 1})
	vmodel.Message = "<script>alert(1)</script>"
	vmodel.Outcome = viewer.Outcome{Kind: viewer.StrategyNative, EmbedURL: "javascript:alert(1)"}

	body := renderViewerPage(t, vmodel)

	if strings.Contains(body, "<script>") {
		t.Errorf("body: expected the message to be escaped, got '%s'", body)
	}

	if !strings.Contains(body, "<h1>Tom &amp; &#34;Jerry&#34;</h1>") {
		t.Errorf("body: expected the escaped title, got '%s'", body)
	}

	if strings.Contains(body, `src="javascript:`) {
		t.Errorf("body: expected the embed URL to be sanitized, got '%s'", body)
	}
}

func TestViewerPageRefresh(t *testing.T) {
	vmodel := newViewerPageVModel(t, viewer.Snapshot{State: viewer.StateLoading, Zoom: 1})
	vmodel.RefreshRate = 2

	body := renderViewerPage(t, vmodel)

	if !strings.Contains(body, `<meta http-equiv="refresh" content="2">`) {
		t.Errorf("body: expected the refresh directive, got '%s'", body)
	}

	if !strings.Contains(body, "Loading the document...") {
		t.Errorf("body: expected the loading notice, got '%s'", body)
	}
}
