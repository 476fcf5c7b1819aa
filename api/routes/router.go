package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petpal-app/petpal-backend/api/controllers"
	"github.com/petpal-app/petpal-backend/api/middleware"
	authsvc "github.com/petpal-app/petpal-backend/internal/auth"
	cartsvc "github.com/petpal-app/petpal-backend/internal/cart"
	checkoutsvc "github.com/petpal-app/petpal-backend/internal/checkout"
	"github.com/petpal-app/petpal-backend/internal/healthrecords"
	"github.com/petpal-app/petpal-backend/internal/hospitals"
	ordersvc "github.com/petpal-app/petpal-backend/internal/orders"
	photosvc "github.com/petpal-app/petpal-backend/internal/photos"
	productsvc "github.com/petpal-app/petpal-backend/internal/products"
	reviewsvc "github.com/petpal-app/petpal-backend/internal/reviews"
	"github.com/petpal-app/petpal-backend/pkg/config"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/metrics"
	"github.com/petpal-app/petpal-backend/pkg/session"
)

// Pinger matches the readiness checks' dependency shape.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles everything the router wires into controllers.
type Services struct {
	Auth          authsvc.Service
	Products      productsvc.Service
	Hospitals     *hospitals.Repository
	Cart          cartsvc.Service
	Checkout      checkoutsvc.Service
	Orders        ordersvc.Service
	Reviews       reviewsvc.Service
	HealthRecords healthrecords.Service
	Photos        photosvc.Service
}

// NewRouter assembles the full HTTP surface: health and metrics outside the
// session layer, everything else behind session loading and uniform CSRF.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db, redis Pinger,
	sessions *session.Store,
	httpMetrics *metrics.HTTPMetrics,
	promRegistry *prometheus.Registry,
	uploadsDir string,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	// Photo uploads are the largest legal bodies. The cap leaves room for
	// multipart boundaries and form fields riding alongside the file.
	bodyLimit := cfg.Uploads.MaxBytes + 64<<10

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
		middleware.BodyLimit(bodyLimit),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, db, redis))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	if uploadsDir != "" {
		fileServer := http.StripPrefix(cfg.Uploads.PublicBase, http.FileServer(http.Dir(uploadsDir)))
		r.Method(http.MethodGet, cfg.Uploads.PublicBase+"/*", fileServer)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(sessions, cfg.Session, logg))
		r.Use(middleware.CSRF(logg))

		r.Get("/session", controllers.SessionShow(sessions, logg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(svcs.Auth, logg))
			r.Post("/login", controllers.AuthLogin(svcs.Auth, sessions, cfg.Session, logg))
			r.Post("/logout", controllers.AuthLogout(sessions, cfg.Session, logg))
		})

		r.Get("/products", controllers.ProductList(svcs.Products, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(svcs.Products, logg))
		r.Get("/hospitals", controllers.HospitalList(svcs.Hospitals, logg))
		r.Get("/reviews", controllers.ReviewList(svcs.Reviews, logg))
		r.Get("/photos", controllers.PhotoList(svcs.Photos, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartView(svcs.Cart, logg))
				r.Post("/add", controllers.CartAdd(svcs.Cart, logg))
				r.Post("/update", controllers.CartUpdate(svcs.Cart, logg))
				r.Post("/remove", controllers.CartRemove(svcs.Cart, logg))
			})

			r.Get("/orders", controllers.OrderList(svcs.Orders, logg))
			r.Get("/orders/{orderId}", controllers.OrderDetail(svcs.Orders, logg))

			r.Post("/reviews", controllers.ReviewSubmit(svcs.Reviews, logg))

			r.Route("/health-records", func(r chi.Router) {
				r.Get("/", controllers.HealthRecordList(svcs.HealthRecords, logg))
				r.Post("/", controllers.HealthRecordSubmit(svcs.HealthRecords, logg))
				r.Post("/delete", controllers.HealthRecordDelete(svcs.HealthRecords, logg))
			})

			r.Post("/photos", controllers.PhotoUpload(svcs.Photos, cfg.Uploads, logg))
			r.Post("/photos/delete", controllers.PhotoDelete(svcs.Photos, logg))
		})

		// The storefront sends anonymous checkout posts back to login.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthRedirect(sessions, logg, "/login"))
			r.Post("/orders", controllers.OrderPlace(svcs.Checkout, sessions, logg))
		})
	})

	return r
}
