package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ototansan/internal/auth"
	"github.com/ukydev/ototansan/internal/middleware"
	"github.com/ukydev/ototansan/internal/models"
	"github.com/ukydev/ototansan/internal/render"
	"github.com/ukydev/ototansan/internal/session"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *auth.Service
	registry    *session.Registry
	renderer    *render.Renderer
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, registry *session.Registry, renderer *render.Renderer) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		registry:    registry,
		renderer:    renderer,
	}
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var loginReq models.LoginRequest
	if err := decodeJSON(r, &loginReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	// Validate input
	if loginReq.Email == "" || loginReq.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}
	if err := h.authService.ValidateEmail(loginReq.Email); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess, user, token, err := h.signIn(w, r, loginReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		http.Error(w, auth.Message(err), http.StatusUnauthorized)
		return
	}

	response := models.LoginResponse{
		Token:     token,
		SessionID: sess.ID(),
		User:      *user,
		View:      sess.View(),
	}
	writeJSON(w, http.StatusOK, response)
}

// LoginPage renders the sign-in form.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Login(w, http.StatusOK, ""); err != nil {
		log.WithError(err).Error("Failed to render login page")
	}
}

// LoginForm handles the sign-in form and redirects to the panel on success.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	loginReq := models.LoginRequest{
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Password:  r.PostFormValue("password"),
		SessionID: r.PostFormValue("session_id"),
	}

	if _, _, _, err := h.signIn(w, r, loginReq); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		if err := h.renderer.Login(w, http.StatusUnauthorized, auth.Message(err)); err != nil {
			log.WithError(err).Error("Failed to render login page")
		}
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// signIn authenticates on the requested page session, issues a token and
// stores it in the token cookie. Without an explicit session id the browser's
// session cookie is used, and a new session is opened when neither is known.
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, req models.LoginRequest) (*session.Session, *models.User, string, error) {
	sid := req.SessionID
	if sid == "" {
		if c, err := r.Cookie(middleware.SessionCookie); err == nil {
			sid = c.Value
		}
	}
	sess := h.registry.GetOrCreate(sid)
	setSessionCookie(w, sess.ID())

	user, err := sess.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return nil, nil, "", err
	}

	token, err := h.authService.GenerateToken(user, sess.ID())
	if err != nil {
		sess.Logout()
		return nil, nil, "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.authService.TokenExpiry()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, user, token, nil
}

// Logout signs the current user out of the page session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}
	sess.Logout()
	clearTokenCookie(w)

	if isForm(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logged out",
		"view":    sess.View(),
	})
}

// GetProfile returns the current user's profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	user, err := h.authService.FindUserByID(claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// setSessionCookie pins the browser to its page session. The cookie outlives
// logout so the next sign-in returns to the same collections.
func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
