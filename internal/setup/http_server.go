package setup

import (
	"context"
	"net/http"

	"github.com/bornholm/folio/internal/config"
	folioHTTP "github.com/bornholm/folio/internal/http"
	"github.com/bornholm/folio/internal/http/handler/api"
	"github.com/bornholm/folio/internal/http/handler/metrics"
	"github.com/bornholm/folio/internal/http/handler/webui"
	"github.com/bornholm/folio/internal/http/middleware/authn"
	"github.com/bornholm/folio/internal/http/middleware/ratelimit"
	"github.com/bornholm/folio/internal/http/route"
	"github.com/pkg/errors"
)

func NewHTTPServerFromConfig(ctx context.Context, conf *config.Config) (*folioHTTP.Server, error) {
	manager, err := getViewerManagerFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create viewer manager from config")
	}

	sessionStore, err := getSessionStoreFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not create session store from config")
	}

	basicAuthenticator, err := authn.NewBasicAuthenticator(conf.HTTP.Auth.Users...)
	if err != nil {
		return nil, errors.Wrap(err, "could not create basic authenticator from config")
	}

	// Readers are identified with basic auth, everyone else browses anonymously
	viewerAuthn := authn.Middleware(nil, basicAuthenticator, authn.NewAnonymousAuthenticator(sessionStore))
	readerAuthn := authn.Middleware(nil, basicAuthenticator)

	var purchaseMiddleware func(http.Handler) http.Handler

	if rl := conf.HTTP.RateLimit; rl.Enabled {
		purchaseMiddleware = ratelimit.Middleware(rl.TrustProxyHeaders, rl.RequestInterval, rl.RequestMaxBurst, rl.CacheSize, rl.CacheTTL)
	}

	routes := route.New(conf.HTTP.BaseURL)

	options := []folioHTTP.OptionFunc{
		folioHTTP.WithAddress(conf.HTTP.Address),
		folioHTTP.WithBaseURL(conf.HTTP.BaseURL),
		folioHTTP.WithAllowedOrigins(conf.HTTP.CORS.AllowedOrigins...),
		folioHTTP.WithMount(route.APIPrefix+"/", viewerAuthn(api.NewHandler(manager, routes, purchaseMiddleware))),
		folioHTTP.WithMount("/metrics/", readerAuthn(metrics.NewHandler())),
		folioHTTP.WithMount("/", viewerAuthn(webui.NewHandler(manager, routes, sessionStore, purchaseMiddleware))),
	}

	server := folioHTTP.NewServer(options...)

	return server, nil
}
