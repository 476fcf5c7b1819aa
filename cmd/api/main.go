package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/petpal-app/petpal-backend/api/routes"
	authsvc "github.com/petpal-app/petpal-backend/internal/auth"
	cartsvc "github.com/petpal-app/petpal-backend/internal/cart"
	checkoutsvc "github.com/petpal-app/petpal-backend/internal/checkout"
	"github.com/petpal-app/petpal-backend/internal/healthrecords"
	"github.com/petpal-app/petpal-backend/internal/hospitals"
	ordersvc "github.com/petpal-app/petpal-backend/internal/orders"
	photosvc "github.com/petpal-app/petpal-backend/internal/photos"
	"github.com/petpal-app/petpal-backend/internal/pricing"
	productsvc "github.com/petpal-app/petpal-backend/internal/products"
	reviewsvc "github.com/petpal-app/petpal-backend/internal/reviews"
	"github.com/petpal-app/petpal-backend/internal/users"
	"github.com/petpal-app/petpal-backend/pkg/config"
	"github.com/petpal-app/petpal-backend/pkg/db"
	"github.com/petpal-app/petpal-backend/pkg/logger"
	"github.com/petpal-app/petpal-backend/pkg/metrics"
	"github.com/petpal-app/petpal-backend/pkg/migrate"
	"github.com/petpal-app/petpal-backend/pkg/redis"
	"github.com/petpal-app/petpal-backend/pkg/session"
	"github.com/petpal-app/petpal-backend/pkg/storage/disk"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessions, err := session.NewStore(redisClient, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	fileStore, err := disk.New(cfg.Uploads)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare upload storage", err)
		os.Exit(1)
	}

	policy, err := pricing.PolicyFromConfig(cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "invalid pricing config", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	productRepo := productsvc.NewRepository(gdb)
	hospitalRepo := hospitals.NewRepository(gdb)
	cartRepo := cartsvc.NewRepository(gdb)
	orderRepo := ordersvc.NewRepository(gdb)
	reviewRepo := reviewsvc.NewRepository(gdb)
	recordRepo := healthrecords.NewRepository(gdb)
	photoRepo := photosvc.NewRepository(gdb)

	svcs, err := buildServices(cfg, dbClient, serviceRepos{
		users:     userRepo,
		products:  productRepo,
		hospitals: hospitalRepo,
		carts:     cartRepo,
		orders:    orderRepo,
		reviews:   reviewRepo,
		records:   recordRepo,
		photos:    photoRepo,
	}, fileStore, policy)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg,
			dbClient, redisClient,
			sessions,
			httpMetrics, promRegistry,
			fileStore.Dir(),
			svcs,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

type serviceRepos struct {
	users     *users.Repository
	products  *productsvc.Repository
	hospitals *hospitals.Repository
	carts     cartsvc.CartRepository
	orders    ordersvc.OrderRepository
	reviews   *reviewsvc.Repository
	records   *healthrecords.Repository
	photos    *photosvc.Repository
}

func buildServices(cfg *config.Config, dbClient *db.Client, repos serviceRepos, files *disk.Store, policy pricing.Policy) (routes.Services, error) {
	authService, err := authsvc.NewService(repos.users, cfg.Password)
	if err != nil {
		return routes.Services{}, err
	}
	productService, err := productsvc.NewService(repos.products)
	if err != nil {
		return routes.Services{}, err
	}
	cartService, err := cartsvc.NewService(repos.carts, repos.products, policy)
	if err != nil {
		return routes.Services{}, err
	}
	checkoutService, err := checkoutsvc.NewService(dbClient, repos.carts, repos.orders, policy)
	if err != nil {
		return routes.Services{}, err
	}
	orderService, err := ordersvc.NewService(repos.orders)
	if err != nil {
		return routes.Services{}, err
	}
	reviewService, err := reviewsvc.NewService(repos.reviews, repos.hospitals)
	if err != nil {
		return routes.Services{}, err
	}
	recordService, err := healthrecords.NewService(repos.records)
	if err != nil {
		return routes.Services{}, err
	}
	photoService, err := photosvc.NewService(repos.photos, files, cfg.Uploads)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Auth:          authService,
		Products:      productService,
		Hospitals:     repos.hospitals,
		Cart:          cartService,
		Checkout:      checkoutService,
		Orders:        orderService,
		Reviews:       reviewService,
		HealthRecords: recordService,
		Photos:        photoService,
	}, nil
}
