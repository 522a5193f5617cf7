package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
)

func TestSourceOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/doc-1.pdf":
			// The content type is deliberately wrong: it must be ignored
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("%PDF-1.4"))
		case "/broken.pdf":
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	dsn, _ := url.Parse("http://?timeout=5s")

	source, err := FromDSN(dsn)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	ctx := context.Background()

	u, _ := url.Parse(server.URL + "/doc-1.pdf")

	reader, err := source.Open(ctx, u)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "%PDF-1.4", string(data); e != g {
		t.Errorf("data: expected '%v', got '%v'", e, g)
	}

	u, _ = url.Parse(server.URL + "/missing.pdf")
	if _, err := source.Open(ctx, u); !errors.Is(err, port.ErrNotFound) {
		t.Errorf("source.Open(missing): expected ErrNotFound, got '%v'", err)
	}

	u, _ = url.Parse(server.URL + "/broken.pdf")
	if _, err := source.Open(ctx, u); err == nil {
		t.Errorf("source.Open(broken): expected an error")
	}
}
