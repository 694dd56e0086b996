package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpmetrics "github.com/it-is-Aman/ram-enterprise/app/echo-server/metrics"
	"github.com/it-is-Aman/ram-enterprise/app/echo-server/router"
	"github.com/it-is-Aman/ram-enterprise/business/cart"
	"github.com/it-is-Aman/ram-enterprise/business/category"
	"github.com/it-is-Aman/ram-enterprise/business/dashboard"
	"github.com/it-is-Aman/ram-enterprise/business/inquiry"
	"github.com/it-is-Aman/ram-enterprise/business/orders"
	"github.com/it-is-Aman/ram-enterprise/business/product"
	"github.com/it-is-Aman/ram-enterprise/business/review"
	userService "github.com/it-is-Aman/ram-enterprise/business/user"
	"github.com/it-is-Aman/ram-enterprise/business/wishlist"
	"github.com/it-is-Aman/ram-enterprise/internal/events"
	"github.com/it-is-Aman/ram-enterprise/internal/jobs"
	"github.com/it-is-Aman/ram-enterprise/internal/middleware"
	"github.com/it-is-Aman/ram-enterprise/internal/repository/notification"
	psqlRepo "github.com/it-is-Aman/ram-enterprise/internal/repository/postgres"
	redisRepo "github.com/it-is-Aman/ram-enterprise/internal/repository/redis"
	"github.com/it-is-Aman/ram-enterprise/internal/rest"
	"github.com/it-is-Aman/ram-enterprise/pkg/config"
	"github.com/it-is-Aman/ram-enterprise/pkg/database"
	redisClient "github.com/it-is-Aman/ram-enterprise/pkg/database/redis"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"
	"github.com/it-is-Aman/ram-enterprise/pkg/metrics"
	"github.com/it-is-Aman/ram-enterprise/pkg/mq"
	"github.com/it-is-Aman/ram-enterprise/pkg/utils"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment, cfg.Logger.Filename)
	defer logger.Sync()
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version, "environment", cfg.App.Environment)

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected successfully", "driver", cfg.Database.Driver)

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
	}

	if err := database.SeedAdmin(context.Background(), db, cfg.Admin); err != nil {
		logger.Fatal("Failed to seed admin", "error", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get database handle", "error", err)
	}

	utils.InitJWT(cfg.JWT.SecretKey, cfg.JWT.TTL)
	metrics.Init()

	// Redis is optional. Without it sessions are stateless and the
	// dashboard is computed on every request.
	var (
		rdb            *redis.Client
		tokenStore     userService.TokenStore
		tokenValidator middleware.TokenValidator
		statsCache     dashboard.Cache
	)
	if cfg.Redis.Enabled {
		rdb, err = redisClient.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		tokens := redisRepo.NewTokenRepository(rdb)
		tokenStore = tokens
		tokenValidator = tokens
		statsCache = redisRepo.NewCache(rdb, "dashboard:")
		logger.Info("Redis connected", "addr", cfg.Redis.Addr())
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		logger.Fatal("Failed to create order number generator", "error", err)
	}

	// Init events
	bus := events.NewBus()
	if err := events.RegisterMetrics(bus); err != nil {
		logger.Fatal("Failed to register event metrics", "error", err)
	}

	mailjetEmail := notification.NewMailjetRepository(cfg.Mailjet)
	notifier, err := events.NewNotifier(mailjetEmail, cfg.Mailjet.Workers, cfg.App.Name, cfg.App.NotifyEmail)
	if err != nil {
		logger.Fatal("Failed to create notifier", "error", err)
	}
	if err := notifier.Register(bus); err != nil {
		logger.Fatal("Failed to register notifier", "error", err)
	}

	var broker *mq.Publisher
	if cfg.AMQP.URL != "" {
		broker, err = mq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			logger.Fatal("Failed to connect to message broker", "error", err)
		}
		if err := events.Forward(bus, broker); err != nil {
			logger.Fatal("Failed to forward events", "error", err)
		}
		logger.Info("Forwarding events to broker", "exchange", cfg.AMQP.Exchange)
	}

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	cartRepo := psqlRepo.NewCartRepository(db)
	wishlistRepo := psqlRepo.NewWishlistRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	reviewRepo := psqlRepo.NewReviewRepository(db)
	inquiryRepo := psqlRepo.NewInquiryRepository(db)
	dashboardRepo := psqlRepo.NewDashboardRepository(db)

	// Init service
	userSvc := userService.NewUserService(userRepo, tokenStore, validate, cfg.JWT.TTL)
	categoryService := category.NewCategoryService(categoryRepo)
	productService := product.NewProductService(productRepo, categoryRepo)
	cartService := cart.NewCartService(cartRepo, productRepo)
	wishlistService := wishlist.NewWishlistService(wishlistRepo, productRepo, cartService)
	ordersService := orders.NewOrdersService(ordersRepo, productRepo, userRepo, bus, node)
	reviewService := review.NewReviewService(reviewRepo, productRepo, ordersRepo)
	inquiryService := inquiry.NewInquiryService(inquiryRepo, productRepo, bus)
	dashboardService := dashboard.NewDashboardService(dashboard.Repositories{
		Orders:     dashboardRepo,
		Users:      userRepo,
		Products:   productRepo,
		Categories: categoryRepo,
		Inquiries:  inquiryRepo,
	}, statsCache, cfg.Jobs.LowStockThreshold)

	// Init handler
	timeout := cfg.Server.RequestTimeout
	healthHandler := rest.NewHealthHandler(sqlDB, cfg.App.Version)
	userHandler := rest.NewUserHandler(userSvc, timeout)
	categoryHandler := rest.NewCategoryHandler(categoryService, timeout)
	productHandler := rest.NewProductHandler(productService, timeout, cfg.Jobs.LowStockThreshold)
	cartHandler := rest.NewCartHandler(cartService, timeout)
	wishlistHandler := rest.NewWishlistHandler(wishlistService, timeout)
	ordersHandler := rest.NewOrdersHandler(ordersService, timeout)
	reviewHandler := rest.NewReviewHandler(reviewService, timeout)
	inquiryHandler := rest.NewInquiryHandler(inquiryService, timeout)
	dashboardHandler := rest.NewDashboardHandler(dashboardService, timeout)

	// Init jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		var refresher jobs.StatsRefresher
		if statsCache != nil {
			refresher = dashboardService
		}
		scheduler, err = jobs.New(productRepo, cfg.Jobs.LowStockThreshold, refresher)
		if err != nil {
			logger.Fatal("Failed to schedule jobs", "error", err)
		}
		scheduler.Start()
	}

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.BodyLimit(cfg.Server.BodyLimit))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(httpmetrics.Middleware(prometheus.DefaultRegisterer))

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(tokenValidator)
	optionalAuth := middleware.OptionalAuth(tokenValidator)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	router.SetupHealthRoutes(e, healthHandler)
	e.GET("/metrics", httpmetrics.Handler())

	api := e.Group("/api")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly)
	router.SetupCategoryRoutes(api, categoryHandler, authRequired, adminOnly)
	router.SetupProductRoutes(api, productHandler, authRequired, optionalAuth, adminOnly)
	router.SetupCartRoutes(api, cartHandler, authRequired)
	router.SetupWishlistRoutes(api, wishlistHandler, authRequired)
	router.SetOrdersRoutes(api, ordersHandler, authRequired, adminOnly)
	router.SetupReviewRoutes(api, reviewHandler, authRequired, adminOnly)
	router.SetupInquiryRoutes(api, inquiryHandler, authRequired, optionalAuth, adminOnly)
	router.SetupDashboardRoutes(api, dashboardHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if scheduler != nil {
		scheduler.Stop(ctx)
	}

	bus.Wait()
	notifier.Release(5 * time.Second)

	if broker != nil {
		if err := broker.Close(); err != nil {
			logger.Error("Broker close error", "error", err)
		}
	}

	if err := redisClient.CloseRedisClient(rdb); err != nil {
		logger.Error("Redis close error", "error", err)
	}

	if err := database.Close(db); err != nil {
		logger.Error("Database close error", "error", err)
	}

	logger.Info("Server stopped")
}
