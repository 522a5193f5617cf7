package config

import "time"

type HTTP struct {
	BaseURL string `env:"BASE_URL,expand" envDefault:"/"`
	Address string `env:"ADDRESS,expand" envDefault:":3002"`
	// PublicURL is the absolute address of the service, as seen by external viewers
	PublicURL string    `env:"PUBLIC_URL,expand" envDefault:"http://localhost:3002"`
	Auth      Auth      `envPrefix:"AUTH_"`
	Session   Session   `envPrefix:"SESSION_"`
	CORS      CORS      `envPrefix:"CORS_"`
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`
}

type Auth struct {
	// Users are "username:password" pairs authenticated with basic auth
	Users []string `env:"USERS,expand" envSeparator:","`
}

type Session struct {
	Keys   []string `env:"KEYS" envSeparator:","`
	Cookie Cookie   `envPrefix:"COOKIE_"`
}

type Cookie struct {
	Path     string        `env:"PATH" envDefault:"/"`
	MaxAge   time.Duration `env:"MAX_AGE" envDefault:"8760h"`
	Secure   bool          `env:"SECURE" envDefault:"false"`
	HTTPOnly bool          `env:"HTTP_ONLY" envDefault:"true"`
}

type CORS struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

type RateLimit struct {
	Enabled           bool          `env:"ENABLED" envDefault:"true"`
	TrustProxyHeaders bool          `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	RequestInterval   time.Duration `env:"REQUEST_INTERVAL" envDefault:"1s"`
	RequestMaxBurst   int           `env:"REQUEST_MAX_BURST" envDefault:"5"`
	CacheSize         int           `env:"CACHE_SIZE" envDefault:"10000"`
	CacheTTL          time.Duration `env:"CACHE_TTL" envDefault:"1h"`
}
