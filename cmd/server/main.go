package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abu0505/tokyo-shoes-sub000/config"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/controller"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/repository"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/service"
	"github.com/abu0505/tokyo-shoes-sub000/internal/db"
	"github.com/abu0505/tokyo-shoes-sub000/internal/middleware"
	"github.com/abu0505/tokyo-shoes-sub000/internal/pricing"
	"github.com/abu0505/tokyo-shoes-sub000/internal/router"
	"github.com/abu0505/tokyo-shoes-sub000/internal/scheduler"
	"github.com/abu0505/tokyo-shoes-sub000/internal/stock"
	"github.com/abu0505/tokyo-shoes-sub000/pkg/logger"
	"github.com/abu0505/tokyo-shoes-sub000/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Tokyo Shoes Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (checkout coupon sessions)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()
	couponSessions := redis.NewCouponSessions(redis.GetClient(), cfg.Checkout.CouponSessionTTL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	variantRepo := repository.NewVariantRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	couponRepo := repository.NewCouponRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	wishlistRepo := repository.NewWishlistRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo, variantRepo)
	cartService := service.NewCartService(cartRepo, productRepo, variantRepo)
	couponService := service.NewCouponService(couponRepo, couponSessions)
	reconciler := stock.NewReconciler(variantRepo, cfg.Checkout.StockLookupTimeout)
	checkoutService := service.NewCheckoutService(
		cartRepo,
		couponRepo,
		orderRepo,
		couponSessions,
		reconciler,
		pricing.RatesFrom(cfg.Shipping.StandardFee, cfg.Shipping.ExpressFee, cfg.Shipping.FreeThreshold),
		db.GetDB(),
	)
	orderService := service.NewOrderService(orderRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	couponController := controller.NewCouponController(couponService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	orderController := controller.NewOrderController(orderService)
	wishlistController := controller.NewWishlistController(wishlistService)
	reviewController := controller.NewReviewController(reviewService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the expired coupon sweep
	couponScheduler := scheduler.NewCouponScheduler(couponService)
	if err := couponScheduler.Start(); err != nil {
		logger.Fatal("Failed to start coupon scheduler", err)
	}
	defer couponScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		couponController,
		checkoutController,
		orderController,
		wishlistController,
		reviewController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
