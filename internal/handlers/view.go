package handlers

import (
	"net/http"

	"github.com/ukydev/ototansan/internal/models"
)

// ViewHandler reads and changes the selected panel.
type ViewHandler struct{}

// NewViewHandler creates a new view handler
func NewViewHandler() *ViewHandler {
	return &ViewHandler{}
}

type viewResponse struct {
	View       models.View      `json:"view"`
	Navigation []models.NavItem `json:"navigation"`
}

// Get returns the selected panel and the navigation entries.
func (h *ViewHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{View: sess.View(), Navigation: models.Navigation})
}

// Navigate selects a panel.
func (h *ViewHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}

	var req struct {
		View string `json:"view"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	view, err := models.ParseView(req.View)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := sess.Navigate(view); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{View: sess.View(), Navigation: models.Navigation})
}

// Dashboard returns the dashboard panel of the current user.
func (h *ViewHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}
	dash, err := sess.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
