package handlers

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
)

// WithIdentity stores the authenticated caller on the request context.
func WithIdentity(ctx context.Context, userID int, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// IdentityFrom returns the caller stored by WithIdentity.
func IdentityFrom(ctx context.Context) (userID int, role string, ok bool) {
	userID, ok = ctx.Value(userIDKey).(int)
	if !ok || userID <= 0 {
		return 0, "", false
	}
	role, _ = ctx.Value(roleKey).(string)
	return userID, role, true
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (int, string, bool) {
	userID, role, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return 0, "", false
	}
	return userID, role, true
}
