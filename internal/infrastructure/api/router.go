package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig collects everything the HTTP surface needs.
type RouterConfig struct {
	Products       *ProductHandler
	Categories     *CategoryHandler
	Stores         *StoreHandler
	Auth           *AuthHandler
	Favorites      *FavoriteHandler
	Webhooks       *WebhookHandler
	OAuth          *OAuthHandler
	Registry       *prometheus.Registry
	AllowedOrigins []string
}

// NewRouter assembles the full route tree.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/products", cfg.Products.Routes())
		r.Mount("/categories", cfg.Categories.Routes())
		r.Mount("/stores", cfg.Stores.Routes())
		r.Mount("/auth", cfg.Auth.Routes())

		r.Group(func(r chi.Router) {
			r.Use(cfg.Auth.RequireAuth)
			r.Mount("/favorites", cfg.Favorites.Routes())
		})

		r.Post("/webhooks/tiendanube", cfg.Webhooks.Receive)
	})

	r.Get("/auth/tiendanube/callback", cfg.OAuth.Callback)

	return r
}
