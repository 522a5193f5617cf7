package viewer

import (
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/pkg/errors"
)

func TestStrategies(t *testing.T) {
	type testCase struct {
		Category model.Category
		Expected []StrategyKind
	}

	testCases := []testCase{
		{model.CategoryPDF, []StrategyKind{StrategyNative, StrategyDownload}},
		{model.CategoryWord, []StrategyKind{StrategyFullPage, StrategyOfficeOnline, StrategyDocumentViewer, StrategyDownload}},
		{model.CategoryExcel, []StrategyKind{StrategyFullPage, StrategyOfficeOnline, StrategyDocumentViewer, StrategyDownload}},
		{model.CategoryPowerPoint, []StrategyKind{StrategyFullPage, StrategyOfficeOnline, StrategyDocumentViewer, StrategyDownload}},
		{model.CategoryText, []StrategyKind{StrategyText, StrategyDownload}},
		{model.CategoryImage, []StrategyKind{StrategyImage, StrategyDownload}},
		{model.CategoryUnsupported, []StrategyKind{StrategyDownload}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.Category), func(t *testing.T) {
			if e, g := tc.Expected, Strategies(tc.Category); !slices.Equal(e, g) {
				t.Errorf("Strategies(%s): expected '%v', got '%v'", tc.Category, e, g)
			}
		})
	}
}

func testLinks() Links {
	return Links{
		FullPageURL:       "/viewer/sessions/s1/fullpage",
		RenderedURL:       "/viewer/sessions/s1/rendered",
		DownloadURL:       "/api/v1/documents/d1/download",
		PublicURL:         &url.URL{Scheme: "https", Host: "cdn.example.com", Path: "/report.docx"},
		OfficeViewerURL:   DefaultOfficeViewerURL,
		DocumentViewerURL: DefaultDocumentViewerURL,
	}
}

func TestSelectStrategyOffice(t *testing.T) {
	source := &fakeSource{content: map[string][]byte{
		"https://cdn.example.com/report.docx": []byte("docx"),
	}}

	session := loadSession(t, source, &fakePaginator{}, newTestDocument(t, "https://cdn.example.com/report.docx"), false)
	defer session.Close()

	if e, g := StrategyFullPage, session.Mode(); e != g {
		t.Errorf("session.Mode(): expected '%v', got '%v'", e, g)
	}

	outcome, err := session.SelectStrategy(StrategyOfficeOnline, testLinks())
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if outcome.Error != "" {
		t.Errorf("outcome.Error: unexpected error '%s'", outcome.Error)
	}

	if e, g := "https://view.officeapps.live.com/op/embed.aspx?src=https%3A%2F%2Fcdn.example.com%2Freport.docx", outcome.EmbedURL; e != g {
		t.Errorf("outcome.EmbedURL: expected '%v', got '%v'", e, g)
	}

	if e, g := "/api/v1/documents/d1/download", outcome.DownloadURL; e != g {
		t.Errorf("outcome.DownloadURL: expected '%v', got '%v'", e, g)
	}

	if e, g := StrategyOfficeOnline, session.Mode(); e != g {
		t.Errorf("session.Mode(): expected '%v', got '%v'", e, g)
	}

	outcome, err = session.SelectStrategy(StrategyDocumentViewer, testLinks())
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if !strings.HasPrefix(outcome.EmbedURL, "https://docs.google.com/gview?embedded=true&url=") {
		t.Errorf("outcome.EmbedURL: unexpected url '%s'", outcome.EmbedURL)
	}

	if _, err := session.SelectStrategy(StrategyLocal, testLinks()); !errors.Is(err, ErrStrategyUnavailable) {
		t.Errorf("session.SelectStrategy(local): expected ErrStrategyUnavailable, got '%v'", err)
	}

	links := testLinks()
	links.LocalRendering = true

	outcome, err = session.SelectStrategy(StrategyLocal, links)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := links.RenderedURL, outcome.EmbedURL; e != g {
		t.Errorf("outcome.EmbedURL: expected '%v', got '%v'", e, g)
	}

	if _, err := session.SelectStrategy(StrategyNative, testLinks()); !errors.Is(err, ErrStrategyUnavailable) {
		t.Errorf("session.SelectStrategy(native): expected ErrStrategyUnavailable, got '%v'", err)
	}
}

func TestSelectStrategyExternalViewerErrors(t *testing.T) {
	source := &fakeSource{content: map[string][]byte{
		"https://cdn.example.com/report.docx": []byte("docx"),
	}}

	gated := loadSession(t, source, &fakePaginator{}, newTestDocument(t, "https://cdn.example.com/report.docx", model.WithDocumentPreview(3)), false)
	defer gated.Close()

	outcome, err := gated.SelectStrategy(StrategyOfficeOnline, testLinks())
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if outcome.Error == "" || outcome.EmbedURL != "" {
		t.Errorf("outcome: expected an explicit error for a gated document, got '%+v'", outcome)
	}

	if outcome.DownloadURL == "" {
		t.Errorf("outcome.DownloadURL: expected a download link")
	}

	free := loadSession(t, source, &fakePaginator{}, newTestDocument(t, "https://cdn.example.com/report.docx"), false)
	defer free.Close()

	links := testLinks()
	links.PublicURL = nil

	outcome, err = free.SelectStrategy(StrategyDocumentViewer, links)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if outcome.Error == "" {
		t.Errorf("outcome.Error: expected an explicit error without public url")
	}
}

func TestSelectStrategyAfterLoadFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("unreachable")}

	session := NewSession(source, &fakePaginator{})
	defer session.Close()

	if err := session.Load(newTestDocument(t, "https://cdn.example.com/report.docx"), false); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	waitState(t, session, StateLoadError)

	if _, err := session.SelectStrategy(StrategyOfficeOnline, testLinks()); !errors.Is(err, ErrLoadFailed) {
		t.Errorf("session.SelectStrategy(office-online): expected ErrLoadFailed, got '%v'", err)
	}

	outcome, err := session.SelectStrategy(StrategyDownload, testLinks())
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "/api/v1/documents/d1/download", outcome.DownloadURL; e != g {
		t.Errorf("outcome.DownloadURL: expected '%v', got '%v'", e, g)
	}
}
