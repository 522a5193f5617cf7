package pandoc

import (
	"bytes"
	"context"
	"slices"
	"testing"
)

func TestRendererSupportedExtensions(t *testing.T) {
	renderer := NewRenderer("", "")

	if !slices.Contains(renderer.SupportedExtensions(), ".docx") {
		t.Errorf("renderer.SupportedExtensions(): missing '.docx'")
	}

	if slices.Contains(renderer.SupportedExtensions(), ".xlsx") {
		t.Errorf("renderer.SupportedExtensions(): unexpected '.xlsx'")
	}
}

func TestRendererMissingCommand(t *testing.T) {
	renderer := NewRenderer("folio-missing-pandoc", "")

	if _, err := renderer.Render(context.Background(), "letter.docx", bytes.NewBufferString("docx")); err == nil {
		t.Errorf("renderer.Render(): expected an error with a missing command")
	}
}
