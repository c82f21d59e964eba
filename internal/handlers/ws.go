package handlers

import (
	"net/http"
	"strings"

	"cashbox/internal/auth"
	"cashbox/internal/websocket"
)

// WSTransactions upgrades the connection for the live transaction feed.
// Browsers cannot set headers on a websocket dial, so the token may
// arrive in the query string instead of the Authorization header.
func (h *Handler) WSTransactions(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	if _, err := auth.ParseToken(h.cfg.JWTSecret, token); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub)
}
