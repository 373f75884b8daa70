package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockroomhq/stockroom-backend/api/controllers"
	"github.com/stockroomhq/stockroom-backend/api/middleware"
	"github.com/stockroomhq/stockroom-backend/internal/auth"
	"github.com/stockroomhq/stockroom-backend/internal/changelog"
	product "github.com/stockroomhq/stockroom-backend/internal/products"
	"github.com/stockroomhq/stockroom-backend/pkg/auth/session"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
)

// Deps bundles everything the router needs.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	SessionManager session.AccessSessionChecker
	AuthService    auth.Service
	ProductService product.Service
	LogService     changelog.Service
	HTTPMetrics    *metrics.HTTPMetrics
	HealthChecks   map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.HealthChecks))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		if cfg.Demo.Enabled {
			r.Post("/demo", controllers.AuthDemo(deps.AuthService, logg))
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
			r.Get("/me", controllers.AuthMe(deps.AuthService, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Get("/", controllers.ProductsList(deps.ProductService, logg))
		r.Post("/", controllers.ProductsCreate(deps.ProductService, cfg.Images.MaxUploadMB, logg))
		r.Put("/{id}", controllers.ProductsUpdate(deps.ProductService, cfg.Images.MaxUploadMB, logg))
		r.Delete("/{id}", controllers.ProductsDelete(deps.ProductService, logg))
	})

	r.Route("/api/logs", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Get("/", controllers.LogsList(deps.LogService, logg))
		r.Delete("/", controllers.LogsClear(deps.LogService, logg))
	})

	return r
}
