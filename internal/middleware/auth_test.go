package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/ototansan/internal/auth"
	"github.com/ukydev/ototansan/internal/models"
	"github.com/ukydev/ototansan/internal/session"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	authService *auth.Service
	registry    *session.Registry
	middleware  *AuthMiddleware
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	authService, err := auth.NewService(auth.Options{JWTSecret: "test", BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	registry := session.NewRegistry(authService, session.Options{})
	return &fixture{
		authService: authService,
		registry:    registry,
		middleware:  NewAuthMiddleware(authService, registry),
	}
}

// signIn logs a user into a fresh page session and returns a token for it.
func (f *fixture) signIn(t *testing.T, email, password string) (string, *session.Session) {
	t.Helper()
	sess := f.registry.Create()
	user, err := sess.Login(context.Background(), email, password)
	require.NoError(t, err)
	token, err := f.authService.GenerateToken(user, sess.ID())
	require.NoError(t, err)
	return token, sess
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	f := newFixture(t)

	t.Run("valid token", func(t *testing.T) {
		token, sess := f.signIn(t, "user@ototansan.com", "user123")

		req := httptest.NewRequest("GET", "/api/records", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
			claims, ok := GetUserFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, "user-1", claims.UserID)
			assert.Equal(t, models.RoleUser, claims.Role)
			got, ok := GetSessionFromContext(r.Context())
			assert.True(t, ok)
			assert.Same(t, sess, got)
		})

		f.middleware.Authenticate(handler).ServeHTTP(w, req)
		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("token cookie", func(t *testing.T) {
		token, _ := f.signIn(t, "admin@ototansan.com", "admin123")

		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
		w := httptest.NewRecorder()

		handlerCalled := false
		f.middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		})).ServeHTTP(w, req)
		assert.True(t, handlerCalled)
	})

	t.Run("missing authorization header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/records", nil)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		})

		f.middleware.Authenticate(handler).ServeHTTP(w, req)
		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/records", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		})

		f.middleware.Authenticate(handler).ServeHTTP(w, req)
		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		token, err := f.authService.GenerateToken(&models.User{ID: "user-1", Role: models.RoleUser}, "gone")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/records", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		f.middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not be called")
		})).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token after logout", func(t *testing.T) {
		token, sess := f.signIn(t, "user@ototansan.com", "user123")
		sess.Logout()

		req := httptest.NewRequest("GET", "/api/records", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		f.middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not be called")
		})).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("skip auth path", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		})

		f.middleware.Authenticate(handler).ServeHTTP(w, req)
		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	f := newFixture(t)

	t.Run("admin accessing admin endpoint", func(t *testing.T) {
		token, _ := f.signIn(t, "admin@ototansan.com", "admin123")

		req := httptest.NewRequest("POST", "/api/products", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		})

		f.middleware.Authenticate(f.middleware.RequireRole(models.RoleAdmin)(handler)).ServeHTTP(w, req)
		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("user accessing admin endpoint", func(t *testing.T) {
		token, _ := f.signIn(t, "user@ototansan.com", "user123")

		req := httptest.NewRequest("POST", "/api/products", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		})

		f.middleware.Authenticate(f.middleware.RequireRole(models.RoleAdmin)(handler)).ServeHTTP(w, req)
		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAuthMiddleware_RequirePermission(t *testing.T) {
	f := newFixture(t)
	token, _ := f.signIn(t, "user@ototansan.com", "user123")

	tests := []struct {
		name   string
		action string
		called bool
		code   int
	}{
		{"user may print", models.ActionPrintRecord, true, http.StatusOK},
		{"user may not manage products", models.ActionManageProducts, false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/x", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			handlerCalled := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
			})

			f.middleware.Authenticate(f.middleware.RequirePermission(tt.action)(handler)).ServeHTTP(w, req)
			assert.Equal(t, tt.called, handlerCalled)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestRequireRole_WithoutContext(t *testing.T) {
	f := newFixture(t)
	w := httptest.NewRecorder()
	f.middleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be called")
	})).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserFromContext(t *testing.T) {
	claims := &models.Claims{
		UserID: "user-1",
		Name:   "Budi Santoso",
		Role:   models.RoleUser,
	}

	ctx := context.WithValue(context.Background(), UserContextKey, claims)

	retrievedClaims, ok := GetUserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, claims.UserID, retrievedClaims.UserID)
	assert.Equal(t, claims.Role, retrievedClaims.Role)

	_, ok = GetUserFromContext(context.Background())
	assert.False(t, ok)
	_, ok = GetSessionFromContext(context.Background())
	assert.False(t, ok)
}

func TestAuthMiddleware_PageRedirect(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	f.middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be called")
	})).ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	f := newFixture(t)
	token, _ := f.signIn(t, "user@ototansan.com", "user123")

	req := httptest.NewRequest("GET", "/api/records", nil)
	req.Header.Set("Authorization", "Token "+token)
	w := httptest.NewRecorder()

	f.middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be called")
	})).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
