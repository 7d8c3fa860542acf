package middleware

import (
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ototansan/internal/auth"
	"github.com/ukydev/ototansan/internal/models"
	"github.com/ukydev/ototansan/internal/session"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	UserContextKey    contextKey = "user"
	SessionContextKey contextKey = "session"
)

const (
	// TokenCookie carries the bearer token for browser page requests.
	TokenCookie = "ototansan_token"
	// SessionCookie keeps the browser's page session across logout.
	SessionCookie = "ototansan_sid"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authService *auth.Service
	registry    *session.Registry
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService *auth.Service, registry *session.Registry) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		registry:    registry,
	}
}

// Authenticate validates the token, resolves its page session and checks that
// the token's user is still signed in there.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipAuth(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := m.tokenFromRequest(r)
		if err != nil {
			unauthorized(w, r, auth.Message(err))
			return
		}
		if token == "" {
			unauthorized(w, r, "Authorization header required")
			return
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			unauthorized(w, r, auth.Message(err))
			return
		}

		sess, err := m.registry.Get(claims.SessionID)
		if err != nil {
			unauthorized(w, r, "Session not found")
			return
		}

		current := sess.CurrentUser()
		if current == nil || current.ID != claims.UserID {
			log.WithFields(log.Fields{"session_id": claims.SessionID, "user_id": claims.UserID}).Debug("Token no longer matches session user")
			unauthorized(w, r, "Session ended")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		ctx = context.WithValue(ctx, SessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// unauthorized rejects API calls with 401 and sends page requests to the
// sign-in form.
func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	if r.Method == http.MethodGet && !strings.HasPrefix(r.URL.Path, "/api/") {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Error(w, msg, http.StatusUnauthorized)
}

// RequireRole middleware checks if the user has the required role
func (m *AuthMiddleware) RequireRole(requiredRole models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserFromContext(r.Context())
			if !ok {
				http.Error(w, "User context not found", http.StatusUnauthorized)
				return
			}

			if claims.Role != requiredRole && claims.Role != models.RoleAdmin {
				http.Error(w, "Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission middleware checks if the user has the required permission
func (m *AuthMiddleware) RequirePermission(requiredAction string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserFromContext(r.Context())
			if !ok {
				http.Error(w, "User context not found", http.StatusUnauthorized)
				return
			}

			user := &models.User{Role: claims.Role}
			if !user.HasPermission(requiredAction) {
				http.Error(w, "Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts user claims from request context
func GetUserFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)
	return claims, ok
}

// GetSessionFromContext extracts the page session from request context
func GetSessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(SessionContextKey).(*session.Session)
	return sess, ok
}

// tokenFromRequest reads the bearer token from the Authorization header,
// falling back to the token cookie.
func (m *AuthMiddleware) tokenFromRequest(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		return m.authService.ExtractTokenFromHeader(h)
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value, nil
	}
	return "", nil
}

// shouldSkipAuth determines if authentication should be skipped for a given path
func shouldSkipAuth(path string) bool {
	skipPaths := []string{
		"/api/auth/login",
		"/api/sessions",
		"/login",
		"/health",
	}

	for _, skipPath := range skipPaths {
		if strings.HasPrefix(path, skipPath) {
			return true
		}
	}
	return false
}
