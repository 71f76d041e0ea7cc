package http

import (
	"net/http"

	"github.com/shiphyhq/portal/internal/portal/domain"
	"github.com/shiphyhq/portal/pkg/httpx"
)

// sessionResolver checks a token's session id against the live session.
type sessionResolver interface {
	SessionByID(id string) (domain.Session, bool)
}

// requireLiveSession runs after AuthnMiddleware and rejects tokens whose
// session no longer exists. This is what makes kick-all and emergency
// lockdown bite instantly: the token stays cryptographically valid but
// points at nothing.
func requireLiveSession(sessions sessionResolver) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := httpx.SIDFromCtx(r.Context())
			if sid == "" {
				writeError(w, http.StatusUnauthorized, "invalid_token", "Token carries no session.")
				return
			}
			if _, ok := sessions.SessionByID(sid); !ok {
				writeError(w, http.StatusUnauthorized, "session_terminated", "Session is no longer active. Log in again.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
