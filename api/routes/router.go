package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/cartkeeper/api/controllers"
	cartcontrollers "github.com/angelmondragon/cartkeeper/api/controllers/cart"
	"github.com/angelmondragon/cartkeeper/api/middleware"
	"github.com/angelmondragon/cartkeeper/api/responses"
	"github.com/angelmondragon/cartkeeper/internal/cart"
	"github.com/angelmondragon/cartkeeper/internal/catalog"
	"github.com/angelmondragon/cartkeeper/pkg/config"
	"github.com/angelmondragon/cartkeeper/pkg/db"
	pkgerrors "github.com/angelmondragon/cartkeeper/pkg/errors"
	"github.com/angelmondragon/cartkeeper/pkg/logger"
	"github.com/angelmondragon/cartkeeper/pkg/metrics"
	"github.com/angelmondragon/cartkeeper/pkg/redis"
)

// NewRouter wires every HTTP route. redisP and idempotencyStore are nil when
// Redis is not configured; metricsHandler is nil when /metrics is disabled.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	idempotencyStore redis.IdempotencyStore,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	cartService cart.Service,
	products *catalog.Catalog,
	cartAdmin controllers.CartAdmin,
	purger controllers.CartPurger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Route not found"))
	})

	readiness := map[string]controllers.Pinger{}
	if dbP != nil {
		readiness["database"] = dbP
	}
	if redisP != nil {
		readiness["redis"] = redisP
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(middleware.CartSession(cfg.Cart, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/", cartcontrollers.CartFetch(cartService, logg))
		r.Post("/add", cartcontrollers.CartAdd(cartService, logg))
		r.Put("/update", cartcontrollers.CartUpdate(cartService, logg))
		r.Delete("/remove/{productId}", cartcontrollers.CartRemove(cartService, logg))
		r.Delete("/clear", cartcontrollers.CartClear(cartService, logg))
		r.Post("/sync", cartcontrollers.CartSync(cartService, logg))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(products, logg))
		r.Get("/{productId}", controllers.ProductDetail(products, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.Admin, logg))
		r.Post("/cleanup", controllers.AdminCleanup(purger, logg))
		r.Get("/stats", controllers.AdminStats(cartAdmin, logg))
		r.Put("/products/{productId}", controllers.AdminUpsertProduct(products, logg))
		r.Delete("/carts/{cartId}", controllers.AdminDeleteCart(cartAdmin, logg))
	})

	if dir := strings.TrimSpace(cfg.App.StaticDir); dir != "" {
		r.Get("/*", http.FileServer(http.Dir(dir)).ServeHTTP)
	}

	return r
}
