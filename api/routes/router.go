package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockroomhq/stockroom-backend/api/controllers"
	"github.com/stockroomhq/stockroom-backend/api/middleware"
	actionsvc "github.com/stockroomhq/stockroom-backend/internal/actions"
	dashsvc "github.com/stockroomhq/stockroom-backend/internal/dashboard"
	itemsvc "github.com/stockroomhq/stockroom-backend/internal/items"
	usersvc "github.com/stockroomhq/stockroom-backend/internal/users"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
	"github.com/stockroomhq/stockroom-backend/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Items     itemsvc.Service
	Users     usersvc.Service
	Actions   actionsvc.Service
	Dashboard dashsvc.Service
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
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, readyRedis(deps.Redis), logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.RateLimit(rateLimiter(deps.Redis), cfg.RateLimit, logg),
			middleware.Idempotency(idempotencyStore(deps.Redis), logg),
		)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(deps.Items, logg))
			r.Post("/", controllers.CreateItem(deps.Items, logg))
			r.Post("/scan", controllers.ScanItem(deps.Items, logg))
			r.Put("/{id}", controllers.UpdateItemStatus(deps.Items, logg))
			r.Delete("/{typeCode}", controllers.DeleteItemType(deps.Items, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.ListUsers(deps.Users, logg))
			r.Post("/", controllers.CreateUser(deps.Users, logg))
			r.Get("/{id}", controllers.GetUser(deps.Users, logg))
			r.Put("/{id}", controllers.UpdateUser(deps.Users, logg))
			r.Delete("/{id}", controllers.DeleteUser(deps.Users, logg))
		})

		r.Route("/actions", func(r chi.Router) {
			r.Get("/", controllers.ListActions(deps.Actions, logg))
			r.Post("/", controllers.RecordAction(deps.Actions, logg))
			r.Delete("/{id}", controllers.DeleteAction(deps.Actions, logg))
		})

		r.Get("/dashboard", controllers.Dashboard(deps.Dashboard, logg))
	})

	return r
}

// nil interfaces must stay nil; a typed nil *redis.Client would ping itself.
func readyRedis(client *redis.Client) redis.Pinger {
	if client == nil {
		return nil
	}
	return client
}

func idempotencyStore(client *redis.Client) redis.IdempotencyStore {
	if client == nil {
		return nil
	}
	return client
}

func rateLimiter(client *redis.Client) middleware.FixedWindowLimiter {
	if client == nil {
		return nil
	}
	return client
}
