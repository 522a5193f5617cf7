package main

import (
	"github.com/bornholm/folio/internal/command"
	"github.com/bornholm/folio/internal/command/access"
	"github.com/bornholm/folio/internal/command/catalog"
	"github.com/bornholm/folio/internal/command/document"
)

func main() {
	command.Main(
		"folio",
		"Folio administration",
		catalog.Command(),
		access.Command(),
		document.Command(),
	)
}
