package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// Client-facing authentication messages
const (
	MsgUnauthenticated = "Unauthenticated."
	MsgTokenExpired    = "Token expired"
	MsgInvalidToken    = "Invalid token"
	MsgTokenRevoked    = "Token revoked"
	MsgAuthError       = "Authentication error"
	MsgForbidden       = "Forbidden"
)

const bearerPrefix = "Bearer "

// UserLookup resolves the user a token was issued for.
type UserLookup interface {
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	revoker    auth.TokenRevoker
	users      UserLookup
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
// A nil revoker disables the revocation check.
func NewAuthMiddleware(jwtService auth.JWTService, revoker auth.TokenRevoker, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		revoker:    revoker,
		users:      users,
	}
}

// bearerToken returns the token of a "Bearer <token>" Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// RequireBearerToken rejects every request under prefix that carries no
// Bearer Authorization header, except the listed public paths. It runs before
// routing, so unknown paths under prefix are rejected too.
func RequireBearerToken(prefix string, publicPaths ...string) func(http.Handler) http.Handler {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[strings.TrimSuffix(p, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := strings.TrimSuffix(r.URL.Path, "/")
			if _, ok := public[path]; !ok && (path == prefix || strings.HasPrefix(path, prefix+"/")) {
				if _, ok := bearerToken(r); !ok {
					shared.RespondWithError(w, r, http.StatusUnauthorized, MsgUnauthenticated)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authenticate validates the access token from the Authorization header,
// rejects revoked tokens, and adds the token's user to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		token, ok := bearerToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, MsgUnauthenticated)
			return
		}

		claims, err := m.jwtService.ValidateToken(ctx, token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, MsgTokenExpired)
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrWrongTokenType),
				errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithError(w, r, http.StatusUnauthorized, MsgInvalidToken)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, MsgAuthError, err)
			}
			return
		}

		if m.revoker != nil {
			revoked, err := m.revoker.IsRevoked(ctx, claims.ID)
			if err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, MsgAuthError, err)
				return
			}
			if revoked {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgTokenRevoked,
					auth.ErrTokenRevoked, shared.WithElevatedLogLevel())
				return
			}
		}

		actor, err := m.users.GetUser(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, MsgInvalidToken)
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, MsgAuthError, err)
			return
		}

		ctx = shared.WithActor(ctx, actor, claims)
		ctx = logger.WithLogger(ctx, log.With(slog.Int64("user_id", actor.ID)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole allows the request through only when the authenticated user
// holds role. It must run after Authenticate.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := shared.GetActor(r.Context())
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, MsgUnauthenticated)
				return
			}
			if actor.Role != role {
				shared.RespondWithError(w, r, http.StatusForbidden, MsgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
