package pandoc

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/util"
	"github.com/pkg/errors"
)

const (
	DefaultCommand   = "pandoc"
	DefaultPDFEngine = "weasyprint"
)

// Renderer converts word processing documents to PDF with pandoc.
// Spreadsheets and presentations are not supported.
type Renderer struct {
	command   string
	pdfEngine string
}

// Render implements port.DocumentRenderer.
func (r *Renderer) Render(ctx context.Context, filename string, reader io.Reader) (io.ReadCloser, error) {
	tempDir, err := util.WorkDir("pandoc-*")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer os.RemoveAll(tempDir)

	ext := strings.ToLower(filepath.Ext(filename))

	source := filepath.Join(tempDir, "document"+ext)
	target := filepath.Join(tempDir, "document.pdf")

	file, err := os.Create(source)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		return nil, errors.WithStack(err)
	}

	if err := file.Close(); err != nil {
		return nil, errors.WithStack(err)
	}

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, r.command, "--pdf-engine", r.pdfEngine, "--output", target, source)
	cmd.Stderr = &stderr

	slog.DebugContext(ctx, "converting document", slog.String("command", cmd.String()))

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "could not convert '%s': %s", filename, strings.TrimSpace(stderr.String()))
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return nil, errors.Wrapf(err, "conversion of '%s' produced no pdf", filename)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// SupportedExtensions implements port.DocumentRenderer.
func (r *Renderer) SupportedExtensions() []string {
	return []string{".docx", ".odt", ".rtf"}
}

func NewRenderer(command string, pdfEngine string) *Renderer {
	if command == "" {
		command = DefaultCommand
	}

	if pdfEngine == "" {
		pdfEngine = DefaultPDFEngine
	}

	return &Renderer{
		command:   command,
		pdfEngine: pdfEngine,
	}
}

var _ port.DocumentRenderer = &Renderer{}
