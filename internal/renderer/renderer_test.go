package renderer

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/pkg/errors"
)

type echoRenderer struct {
	extensions []string
	calls      int
}

func (r *echoRenderer) Render(ctx context.Context, filename string, reader io.Reader) (io.ReadCloser, error) {
	r.calls++

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return io.NopCloser(bytes.NewReader(append([]byte("rendered:"), data...))), nil
}

func (r *echoRenderer) SupportedExtensions() []string {
	return r.extensions
}

func TestRoutedRenderer(t *testing.T) {
	word := &echoRenderer{extensions: []string{".docx"}}
	excel := &echoRenderer{extensions: []string{".xlsx"}}

	renderer := NewRoutedRenderer(word, excel)

	reader, err := renderer.Render(context.Background(), "Report.DOCX", bytes.NewBufferString("content"))
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "rendered:content", string(data); e != g {
		t.Errorf("data: expected '%v', got '%v'", e, g)
	}

	if e, g := 1, word.calls; e != g {
		t.Errorf("word.calls: expected '%v', got '%v'", e, g)
	}

	if e, g := 0, excel.calls; e != g {
		t.Errorf("excel.calls: expected '%v', got '%v'", e, g)
	}

	if _, err := renderer.Render(context.Background(), "notes.txt", bytes.NewBufferString("content")); !errors.Is(err, port.ErrNotSupported) {
		t.Errorf("renderer.Render(txt): expected ErrNotSupported, got '%v'", err)
	}
}

func TestRateLimitedRendererCanceled(t *testing.T) {
	renderer := NewRateLimitedRenderer(&echoRenderer{extensions: []string{".docx"}}, time.Hour, 1)

	if _, err := renderer.Render(context.Background(), "a.docx", bytes.NewBufferString("a")); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := renderer.Render(ctx, "b.docx", bytes.NewBufferString("b")); err == nil {
		t.Errorf("renderer.Render(): expected the limiter to give up")
	}
}
