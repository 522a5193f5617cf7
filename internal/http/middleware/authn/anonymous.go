package authn

import (
	"log/slog"
	"net/http"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

const (
	SessionName     = "folio"
	sessionViewerID = "viewer"
)

// AnonymousAuthenticator identifies unauthenticated viewers with a random
// id stored in a signed cookie. Anonymous viewers never have full access.
type AnonymousAuthenticator struct {
	store sessions.Store
}

func (a *AnonymousAuthenticator) Authenticate(w http.ResponseWriter, r *http.Request) (model.User, error) {
	sess, err := a.store.Get(r, SessionName)
	if err != nil {
		// Invalid cookies (ie rotated keys) start a new session
		slog.DebugContext(r.Context(), "could not decode session cookie", slog.Any("error", errors.WithStack(err)))
	}

	if rawID, ok := sess.Values[sessionViewerID].(string); ok && rawID != "" {
		return model.NewAnonymousUser(model.UserID(rawID)), nil
	}

	id := model.NewAnonymousUserID()
	sess.Values[sessionViewerID] = string(id)

	if err := sess.Save(r, w); err != nil {
		return nil, errors.WithStack(err)
	}

	return model.NewAnonymousUser(id), nil
}

var _ Authenticator = &AnonymousAuthenticator{}

func NewAnonymousAuthenticator(store sessions.Store) *AnonymousAuthenticator {
	return &AnonymousAuthenticator{store: store}
}
