package middleware

import (
	"context"
	"net/http"

	"bookcom/pkg/logger"
	"bookcom/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const IdentityKey contextKey = "identity"

type TokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

// Authenticate guards a route with the session cookie. A missing, malformed,
// forged or expired token ends the request with 401; a valid one puts the
// bearer's identity in the request context.
func Authenticate(verifier TokenVerifier, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			cookie, err := r.Cookie(model.SessionCookieName)
			if err != nil || cookie.Value == "" {
				rejectUnauthorized(w, log, r, "missing session cookie")
				return
			}

			identity, err := verifier.Verify(cookie.Value)
			if err != nil {
				rejectUnauthorized(w, log, r, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*model.Identity)
	return identity, ok && identity != nil
}

func rejectUnauthorized(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Unauthorized request",
		"request_id", RequestIDFromContext(r.Context()),
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
	)

	writeJSONError(w, http.StatusUnauthorized, `{"code":"UNAUTHORIZED","message":"Unauthorized access"}`)
}
