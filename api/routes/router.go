package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mercadia/mercadia-backend/api/controllers"
	"github.com/mercadia/mercadia-backend/api/middleware"
	"github.com/mercadia/mercadia-backend/internal/checkout"
	"github.com/mercadia/mercadia-backend/internal/coupons"
	"github.com/mercadia/mercadia-backend/internal/orders"
	"github.com/mercadia/mercadia-backend/pkg/config"
	pkgdb "github.com/mercadia/mercadia-backend/pkg/db"
	"github.com/mercadia/mercadia-backend/pkg/logger"
	pkgredis "github.com/mercadia/mercadia-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       pkgdb.Pinger
	Redis    *pkgredis.Client
	Registry *prometheus.Registry

	Checkout checkout.Service
	Orders   orders.Service
	Coupons  coupons.Service
}

// New assembles the HTTP surface.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(d.Logger))
	r.Use(middleware.RequestID(d.Logger))
	r.Use(middleware.Logging(d.Logger))

	var cache pkgredis.Pinger
	var sessions pkgredis.SessionChecker
	var idem pkgredis.IdempotencyStore
	if d.Redis != nil {
		cache = d.Redis
		sessions = d.Redis
		idem = d.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Live())
		r.Get("/ready", controllers.Ready(d.DB, cache, d.Logger))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/customers", func(r chi.Router) {
		r.Use(middleware.CORS(d.Config.CORS.AllowedOrigins))
		r.Use(middleware.Auth(d.Config.JWT, sessions, d.Logger))

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.RequoteCart(d.Checkout, d.Logger))
			r.Post("/", controllers.QuoteCheckout(d.Checkout, d.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(d.Orders, d.Logger))
			r.With(middleware.Idempotency(idem, d.Config.Checkout.OrderIdempotencyTTL, d.Logger)).
				Post("/", controllers.CreateOrder(d.Orders, d.Logger))
			r.Get("/{orderID}", controllers.GetOrder(d.Orders, d.Logger))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.ListCoupons(d.Coupons, d.Logger))
			r.Post("/", controllers.RedeemCoupon(d.Coupons, d.Logger))
		})
	})

	return r
}
