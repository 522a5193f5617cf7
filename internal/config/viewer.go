package config

import "time"

type Viewer struct {
	PreviewPageLimit int           `env:"PREVIEW_PAGE_LIMIT" envDefault:"30"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	MaxSessions      int           `env:"MAX_SESSIONS" envDefault:"10000"`
	LoadTimeout      time.Duration `env:"LOAD_TIMEOUT" envDefault:"2m"`
	MaxDocumentSize  string        `env:"MAX_DOCUMENT_SIZE" envDefault:"100MiB"`

	OfficeViewerURL   string `env:"OFFICE_VIEWER_URL" envDefault:"https://view.officeapps.live.com/op/embed.aspx?src={url}"`
	DocumentViewerURL string `env:"DOCUMENT_VIEWER_URL" envDefault:"https://docs.google.com/gview?embedded=true&url={url}"`

	// LocalRenderers are the DSN of the office documents renderers, by order
	// of preference. "none" disables the local rendering.
	LocalRenderers []string      `env:"LOCAL_RENDERERS,expand" envSeparator:"," envDefault:"libreoffice://"`
	RenderInterval time.Duration `env:"RENDER_INTERVAL" envDefault:"1s"`
	RenderMaxBurst int           `env:"RENDER_MAX_BURST" envDefault:"2"`
}
