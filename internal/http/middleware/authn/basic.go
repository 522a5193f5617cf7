package authn

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/bornholm/folio/internal/core/model"
	"github.com/bornholm/folio/internal/http/handler/webui/common"
	"github.com/pkg/errors"
)

const ProviderBasic = "basic"

// BasicAuthenticator authenticates the readers declared in
// the configuration with HTTP basic auth.
type BasicAuthenticator struct {
	users map[string][sha256.Size]byte
}

func (a *BasicAuthenticator) Authenticate(w http.ResponseWriter, r *http.Request) (model.User, error) {
	username, password, ok := r.BasicAuth()
	if !ok {
		return nil, nil
	}

	passwordHash := sha256.Sum256([]byte(password))

	expectedPassword, exists := a.users[username]
	if !exists {
		// Compare anyway to keep a constant response time
		expectedPassword = sha256.Sum256([]byte(""))
	}

	if subtle.ConstantTimeCompare(passwordHash[:], expectedPassword[:]) != 1 || !exists {
		w.Header().Set("WWW-Authenticate", `Basic realm="folio", charset="UTF-8"`)
		return nil, errors.WithStack(common.NewError("invalid credentials", "Invalid credentials.", http.StatusUnauthorized))
	}

	return model.NewUser(ProviderBasic, username, username), nil
}

var _ Authenticator = &BasicAuthenticator{}

// NewBasicAuthenticator creates an authenticator from "username:password" pairs.
func NewBasicAuthenticator(credentials ...string) (*BasicAuthenticator, error) {
	users := make(map[string][sha256.Size]byte, len(credentials))

	for _, c := range credentials {
		username, password, found := strings.Cut(c, ":")
		if !found || username == "" {
			return nil, errors.Errorf("invalid credentials '%s', expected 'username:password'", username)
		}

		users[username] = sha256.Sum256([]byte(password))
	}

	return &BasicAuthenticator{users: users}, nil
}
