package libreoffice

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/core/port"
	"github.com/bornholm/folio/internal/util"
	"github.com/pkg/errors"
)

const DefaultCommand = "libreoffice"

// Renderer converts office documents to PDF with a headless LibreOffice
type Renderer struct {
	command string
}

// Render implements port.DocumentRenderer.
func (r *Renderer) Render(ctx context.Context, filename string, reader io.Reader) (io.ReadCloser, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	tempDir, err := util.WorkDir("libreoffice-*")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer os.RemoveAll(tempDir)

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

	cmd := exec.CommandContext(ctx, r.command, "--headless", "--convert-to", "pdf", "--outdir", tempDir, source)
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(), "HOME="+tempDir)

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
	extensions := make([]string, 0)
	for _, c := range []model.Category{model.CategoryWord, model.CategoryExcel, model.CategoryPowerPoint} {
		extensions = append(extensions, c.Extensions()...)
	}

	return extensions
}

func NewRenderer(command string) *Renderer {
	if command == "" {
		command = DefaultCommand
	}

	return &Renderer{
		command: command,
	}
}

var _ port.DocumentRenderer = &Renderer{}
