package markdown

import (
	"bytes"

	"github.com/pkg/errors"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

type Rendered struct {
	HTML []byte
	// Title is read from the front matter, if any
	Title    string
	Metadata map[string]any
}

func Render(source []byte) (*Rendered, error) {
	var buff bytes.Buffer

	ctx := parser.NewContext()

	if err := New().Convert(source, &buff, parser.WithContext(ctx)); err != nil {
		return nil, errors.WithStack(err)
	}

	metadata, err := meta.TryGet(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse front matter")
	}

	rendered := &Rendered{
		HTML:     buff.Bytes(),
		Metadata: metadata,
	}

	if title, ok := metadata["title"].(string); ok {
		rendered.Title = title
	}

	return rendered, nil
}
