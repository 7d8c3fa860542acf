package handlers

import (
	"net/http"

	"github.com/ukydev/ototansan/internal/session"
)

// SessionHandler opens page sessions.
type SessionHandler struct {
	registry *session.Registry
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry *session.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

// Create starts a signed-out page session seeded with the demo data.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := h.registry.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sess.ID()})
}
