package shared

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// ActorContextKey is the context key for the authenticated *domain.User
	ActorContextKey ContextKey = "actor"

	// ClaimsContextKey is the context key for the validated *auth.Claims
	ClaimsContextKey ContextKey = "claims"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID adds a new trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, uuid.NewString())
}

// WithTraceID stores the given trace ID in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// Returns an empty string if no trace ID is found.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithActor stores the authenticated user and the claims of the token that
// authenticated them.
func WithActor(ctx context.Context, actor *domain.User, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, ActorContextKey, actor)
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// GetActor returns the authenticated user, if any.
func GetActor(ctx context.Context) (*domain.User, bool) {
	actor, ok := ctx.Value(ActorContextKey).(*domain.User)
	return actor, ok && actor != nil
}

// GetClaims returns the claims of the access token used for the request, if any.
func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}
