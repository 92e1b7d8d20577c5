package middleware

import (
	"net/http"

	"github.com/alignhq/api/pkg/apierror"
	"github.com/alignhq/api/pkg/domain/access"
	"github.com/alignhq/api/pkg/logger"
)

// RouteAuthorizer decides whether a subject may reach a path.
// Implemented by the authorization service over the static route table.
type RouteAuthorizer interface {
	CheckRoute(actx access.Context, path string) access.Result
}

// RouteGuard enforces the route protection table after authentication.
// It runs on every request regardless of handler-level checks: a route
// rule denies even a subject whose permission flags would allow it.
// The logical path comes from the access context, where the auth
// middleware already stripped the API mount prefix; guard and suite
// therefore evaluate the same path.
func RouteGuard(routes RouteAuthorizer, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actx, ok := GetAccessContext(r.Context())
			if !ok {
				apierror.Unauthorized("authentication required").WriteJSON(w)
				return
			}

			res := routes.CheckRoute(actx, actx.RequestPath)
			if !res.Valid {
				log.Warn("route access denied",
					"path", r.URL.Path,
					"user_id", actx.UserID,
					"reason", res.Error,
					"request_id", GetRequestID(r.Context()),
				)
				apierror.Forbidden(nil).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
