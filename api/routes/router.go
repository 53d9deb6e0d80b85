package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lcastellanos/shopline-backend/api/controllers"
	"github.com/lcastellanos/shopline-backend/api/middleware"
	"github.com/lcastellanos/shopline-backend/internal/auth"
	"github.com/lcastellanos/shopline-backend/internal/catalog"
	"github.com/lcastellanos/shopline-backend/internal/categories"
	"github.com/lcastellanos/shopline-backend/pkg/config"
	"github.com/lcastellanos/shopline-backend/pkg/db"
	"github.com/lcastellanos/shopline-backend/pkg/logger"
	"github.com/lcastellanos/shopline-backend/pkg/metrics"
	"github.com/lcastellanos/shopline-backend/pkg/redis"
	"github.com/lcastellanos/shopline-backend/pkg/uploads"
)

// AdminRole gates catalog mutations.
const AdminRole = "Admin"

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	database *db.Client,
	redisClient *redis.Client,
	authService auth.Service,
	registerService auth.RegisterService,
	categoryService categories.Service,
	catalogService catalog.Service,
	uploadsService *uploads.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if httpMetrics != nil {
		r.Use(middleware.Metrics(httpMetrics))
	}
	r.Use(middleware.CORS())

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", readyHandler(cfg, database, redisClient, logg))
	})

	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	if uploadsService != nil && cfg.Uploads.Dir != "" {
		prefix := strings.TrimSuffix(cfg.Uploads.PublicBaseURL, "/")
		files := http.StripPrefix(prefix+"/", http.FileServer(http.Dir(cfg.Uploads.Dir)))
		r.Get(prefix+"/*", files.ServeHTTP)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(authGuard(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(authGuard(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(registerService, logg))
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Get("/unique", controllers.UsernameUnique(authService, logg))
	})

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoriesList(categoryService, logg))
		r.Get("/{id}", controllers.CategoriesGet(categoryService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(AdminRole, logg))
			r.Post("/", controllers.CategoriesCreate(categoryService, logg))
			r.Put("/{id}", controllers.CategoriesUpdate(categoryService, logg))
			r.Delete("/{id}", controllers.CategoriesDelete(categoryService, logg))
		})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(catalogService, logg))
		r.Get("/page/{page}/{size}", controllers.ProductsPage(catalogService, logg))
		r.Get("/search/{term}", controllers.ProductsSearch(catalogService, logg))
		r.Get("/category/{id}", controllers.ProductsByCategory(catalogService, logg))
		r.Get("/{id}", controllers.ProductsGet(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/purchase/{name}/{qty}", controllers.ProductsPurchase(catalogService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(AdminRole, logg))
				r.Post("/", controllers.ProductsCreate(catalogService, logg))
				r.Put("/{id}", controllers.ProductsUpdate(catalogService, logg))
				r.Delete("/{id}", controllers.ProductsDelete(catalogService, uploadsService, logg))
				r.Post("/{id}/image", controllers.ProductsUploadImage(catalogService, uploadsService, logg))
			})
		})
	})

	return r
}

// authGuard is a no-op when redis is not configured so auth endpoints still
// work without a cache.
func authGuard(policy middleware.AuthRateLimitPolicy, client *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if client == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.AuthRateLimit(policy, client, logg)
}

// readyHandler keeps a missing redis client out of the readiness probe. A
// typed nil would still look non-nil behind the pinger interface.
func readyHandler(cfg *config.Config, database *db.Client, client *redis.Client, logg *logger.Logger) http.HandlerFunc {
	switch {
	case database == nil:
		return controllers.HealthReady(cfg, nil, nil, logg)
	case client == nil:
		return controllers.HealthReady(cfg, database, nil, logg)
	default:
		return controllers.HealthReady(cfg, database, client, logg)
	}
}
