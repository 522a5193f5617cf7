package markdown

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestRender(t *testing.T) {
	source := []byte(`---
title: Poems
---

# Spring

Roses are **red**.

<script>alert("hello")</script>
`)

	rendered, err := Render(source)
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := "Poems", rendered.Title; e != g {
		t.Errorf("rendered.Title: expected '%v', got '%v'", e, g)
	}

	html := string(rendered.HTML)

	if !strings.Contains(html, `<h1 id="spring">Spring</h1>`) {
		t.Errorf("rendered.HTML: missing heading in '%s'", html)
	}

	if !strings.Contains(html, "<strong>red</strong>") {
		t.Errorf("rendered.HTML: missing emphasis in '%s'", html)
	}

	if strings.Contains(html, "<script>") {
		t.Errorf("rendered.HTML: raw html should be omitted, got '%s'", html)
	}

	if strings.Contains(html, "title: Poems") {
		t.Errorf("rendered.HTML: front matter should not be rendered, got '%s'", html)
	}
}
