package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/alignhq/api/pkg/apierror"
	"github.com/alignhq/api/pkg/domain/access"
	"github.com/alignhq/api/pkg/domain/reference"
	"github.com/alignhq/api/pkg/domain/role"
	"github.com/alignhq/api/pkg/jwt"
	"github.com/alignhq/api/pkg/logger"
)

// AccessContextKey holds the access.Context derived from the verified
// token.
const AccessContextKey ContextKey = "access_context"

// ProfileLookup returns the current subject profile. Implemented by
// the redis profile cache; a nil profile means the user does not exist
// in the tenant.
type ProfileLookup interface {
	Get(ctx context.Context, userID, tenantID string) (*reference.SubjectState, error)
}

// Auth verifies the bearer token, confirms the subject is still active,
// and stores an access.Context on the request. The role and area come
// from the stored profile, not the token, so assignment changes take
// effect without reissuing tokens.
//
// mountPrefix is stripped from the request path before it enters the
// access context: the route table and the validation suite both work in
// logical paths, so the context must carry the same path the route
// guard evaluates.
func Auth(manager *jwt.Manager, profiles ProfileLookup, mountPrefix string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				apierror.Unauthorized("missing authorization token").WriteJSON(w)
				return
			}

			claims, err := manager.Verify(token)
			if err != nil {
				log.Warn("token verification failed",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				apierror.Unauthorized("invalid or expired token").WriteJSON(w)
				return
			}
			if claims.TenantID == "" {
				apierror.Unauthorized("token carries no tenant").WriteJSON(w)
				return
			}

			path := r.URL.Path
			if mountPrefix != "" {
				path = strings.TrimPrefix(path, mountPrefix)
			}

			actx := access.Context{
				UserID:        claims.UserID,
				Role:          role.Role(claims.Role),
				TenantID:      claims.TenantID,
				AreaID:        claims.AreaID,
				RequestPath:   path,
				RequestMethod: r.Method,
			}

			if profiles != nil {
				state, err := profiles.Get(r.Context(), claims.UserID, claims.TenantID)
				if err != nil {
					log.Error("profile lookup failed",
						"user_id", claims.UserID,
						"error", err,
						"request_id", GetRequestID(r.Context()),
					)
					apierror.InternalError(err).WriteJSON(w)
					return
				}
				if state == nil || !state.IsActive {
					apierror.Unauthorized("account is not active").WriteJSON(w)
					return
				}
				actx.Role = role.Role(state.Role)
				actx.AreaID = state.AreaID
			}

			if !actx.Role.IsValid() {
				apierror.Unauthorized("unknown role").WriteJSON(w)
				return
			}

			ctx := context.WithValue(r.Context(), AccessContextKey, actx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAccessContext extracts the access context from the request
// context. The second return is false when the auth middleware did not
// run.
func GetAccessContext(ctx context.Context) (access.Context, bool) {
	actx, ok := ctx.Value(AccessContextKey).(access.Context)
	return actx, ok
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
