package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/smile1346/travel-card-phase2-splitspending/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// MemberIDKey is the context key for the authenticated member ID.
	MemberIDKey contextKey = "member_id"
	// MemberNameKey is the context key for the authenticated member's name.
	MemberNameKey contextKey = "member_name"
)

// GetMemberID extracts the member ID from the context.
// Returns empty string if not found.
func GetMemberID(ctx context.Context) string {
	memberID, _ := ctx.Value(MemberIDKey).(string)
	return memberID
}

// GetMemberName extracts the member name from the context.
// Returns empty string if not found.
func GetMemberName(ctx context.Context) string {
	name, _ := ctx.Value(MemberNameKey).(string)
	return name
}

// RequireAuth returns an interceptor that validates the bearer token and adds
// the member to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			ctx = context.WithValue(ctx, MemberIDKey, claims.MemberID)
			ctx = context.WithValue(ctx, MemberNameKey, claims.MemberName)
			return next(ctx, req)
		}
	}
}
