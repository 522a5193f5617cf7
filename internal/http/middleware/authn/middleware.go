package authn

import (
	"log/slog"
	"net/http"

	"github.com/bornholm/folio/internal/core/model"
	httpCtx "github.com/bornholm/folio/internal/http/context"
	"github.com/bornholm/folio/internal/http/handler/webui/common"
	"github.com/bornholm/go-x/slogx"
	"github.com/pkg/errors"
)

var (
	ErrSkipRequest = errors.New("skip request")
)

// Authenticator identifies the viewer of a request. It returns a nil user
// when the request does not carry its credentials.
type Authenticator interface {
	Authenticate(w http.ResponseWriter, r *http.Request) (model.User, error)
}

func Middleware(onUnauthorized func(w http.ResponseWriter, r *http.Request), authenticators ...Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		var fn http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			for _, authenticator := range authenticators {
				user, err := authenticator.Authenticate(w, r)
				if err != nil {
					if errors.Is(err, ErrSkipRequest) {
						return
					}

					slog.ErrorContext(r.Context(), "could not authenticate user", slog.Any("error", errors.WithStack(err)))
					common.HandleError(w, r, err)
					return
				}

				if user == nil {
					continue
				}

				ctx := r.Context()
				ctx = httpCtx.SetUser(ctx, user)
				ctx = slogx.WithAttrs(ctx, slog.String("user", model.UserString(user)))

				r = r.WithContext(ctx)

				next.ServeHTTP(w, r)
				return
			}

			if onUnauthorized == nil {
				common.HandleError(w, r, common.NewHTTPError(http.StatusUnauthorized))
				return
			}

			onUnauthorized(w, r)
		}

		return fn
	}
}
