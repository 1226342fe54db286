package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

type contextKey string

const contextIdentityKey contextKey = "identity"

// Identity is the authenticated caller injected into request context.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IsAdmin reports whether the caller has the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == "admin"
}

func identityFromContext(ctx context.Context) (Identity, error) {
	identity, ok := ctx.Value(contextIdentityKey).(Identity)
	if !ok || identity.UserID == "" {
		return Identity{}, errors.New("missing identity")
	}
	return identity, nil
}

func withIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, identity)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// ErrorResponse is the JSON envelope for all error replies.
type ErrorResponse struct {
	Error string `json:"error"`
}
