package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/recordhub/recordhub-backend/api/controllers"
	"github.com/recordhub/recordhub-backend/api/middleware"
	"github.com/recordhub/recordhub-backend/internal/posts"
	"github.com/recordhub/recordhub-backend/internal/users"
	"github.com/recordhub/recordhub-backend/pkg/config"
	"github.com/recordhub/recordhub-backend/pkg/db"
	"github.com/recordhub/recordhub-backend/pkg/logger"
	"github.com/recordhub/recordhub-backend/pkg/metrics"
	"github.com/recordhub/recordhub-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cacheP redis.Pinger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	userService users.Service,
	postService posts.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cacheP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/", controllers.UserCreate(userService, logg))
		r.Get("/", controllers.UserList(userService, logg))
		r.Get("/search", controllers.UserSearch(userService, logg))
		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", controllers.UserGet(userService, logg))
			r.Put("/", controllers.UserUpdate(userService, logg))
			r.Patch("/", controllers.UserPatch(userService, logg))
			r.Delete("/", controllers.UserDelete(userService, logg))
		})
	})

	r.Route("/api/v1/posts", func(r chi.Router) {
		r.Post("/", controllers.PostCreate(postService, logg))
		r.Get("/", controllers.PostList(postService, logg))
		r.Get("/search", controllers.PostSearch(postService, logg))
		r.Route("/{postID}", func(r chi.Router) {
			r.Get("/", controllers.PostGet(postService, logg))
			r.Put("/", controllers.PostUpdate(postService, logg))
			r.Patch("/", controllers.PostPatch(postService, logg))
			r.Delete("/", controllers.PostDelete(postService, logg))
		})
	})

	return r
}
