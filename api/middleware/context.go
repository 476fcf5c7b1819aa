package middleware

import (
	"context"

	"github.com/petpal-app/petpal-backend/pkg/session"
)

type contextKey string

const (
	ctxSession contextKey = "session_data"
	ctxSID     contextKey = "session_id"
)

// SessionFromContext returns the session attached by the Session middleware.
func SessionFromContext(ctx context.Context) *session.Data {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*session.Data); ok {
		return v
	}
	return nil
}

// SIDFromContext returns the session identifier for the request.
func SIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSID).(string); ok {
		return v
	}
	return ""
}

// UserIDFromContext returns the authenticated user's id, or zero when the
// session is anonymous.
func UserIDFromContext(ctx context.Context) int64 {
	if data := SessionFromContext(ctx); data != nil {
		return data.UserID
	}
	return 0
}

// WithSession injects session state into the context.
func WithSession(ctx context.Context, sid string, data *session.Data) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxSID, sid)
	return context.WithValue(ctx, ctxSession, data)
}
