// Package router registers the HTTP routes of the service.
package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ukydev/ototansan/internal/auth"
	"github.com/ukydev/ototansan/internal/handlers"
	"github.com/ukydev/ototansan/internal/middleware"
	"github.com/ukydev/ototansan/internal/models"
	"github.com/ukydev/ototansan/internal/render"
	"github.com/ukydev/ototansan/internal/session"
)

// Deps are the services the routes are built on.
type Deps struct {
	Auth      *auth.Service
	Registry  *session.Registry
	Renderer  *render.Renderer
	RateLimit *middleware.RateLimitMiddleware
}

// New builds the router.
func New(d Deps) *mux.Router {
	authMW := middleware.NewAuthMiddleware(d.Auth, d.Registry)

	authHandler := handlers.NewAuthHandler(d.Auth, d.Registry, d.Renderer)
	sessionHandler := handlers.NewSessionHandler(d.Registry)
	pageHandler := handlers.NewPageHandler(d.Renderer)
	viewHandler := handlers.NewViewHandler()
	recordHandler := handlers.NewRecordHandler(pageHandler)
	productHandler := handlers.NewProductHandler(pageHandler)

	r := mux.NewRouter()
	if d.RateLimit != nil {
		r.Use(d.RateLimit.RateLimit)
	}
	r.Use(authMW.Authenticate)

	r.HandleFunc("/health", health).Methods("GET")

	// Public
	r.HandleFunc("/api/sessions", sessionHandler.Create).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/login", authHandler.LoginPage).Methods("GET")
	r.HandleFunc("/login", authHandler.LoginForm).Methods("POST")

	// Session
	r.HandleFunc("/api/auth/logout", authHandler.Logout).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	r.HandleFunc("/api/auth/me", authHandler.GetProfile).Methods("GET")
	r.HandleFunc("/api/view", viewHandler.Get).Methods("GET")
	r.HandleFunc("/api/view", viewHandler.Navigate).Methods("PUT")
	r.HandleFunc("/api/dashboard", viewHandler.Dashboard).Methods("GET")

	// Records
	r.HandleFunc("/api/records", recordHandler.List).Methods("GET")
	r.HandleFunc("/api/records", recordHandler.Create).Methods("POST")
	r.HandleFunc("/api/records/{id}", recordHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/records/{id}/delete", recordHandler.Delete).Methods("POST")
	r.HandleFunc("/api/records/{id}/print", recordHandler.Print).Methods("POST")

	// Products
	manage := authMW.RequirePermission(models.ActionManageProducts)
	r.HandleFunc("/api/products", productHandler.List).Methods("GET")
	r.Handle("/api/products", manage(http.HandlerFunc(productHandler.Create))).Methods("POST")
	adminOnly := authMW.RequireRole(models.RoleAdmin)
	r.Handle("/api/products/{id}", adminOnly(http.HandlerFunc(productHandler.Delete))).Methods("DELETE")
	r.Handle("/api/products/{id}/delete", adminOnly(http.HandlerFunc(productHandler.Delete))).Methods("POST")

	// Pages
	r.HandleFunc("/", pageHandler.Panel).Methods("GET")
	r.HandleFunc("/panel", pageHandler.Panel).Methods("GET")
	r.HandleFunc("/print", pageHandler.Print).Methods("GET")

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
