package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/warung_api/internal/cache"
	"github.com/GTDGit/warung_api/internal/config"
	"github.com/GTDGit/warung_api/internal/database"
	"github.com/GTDGit/warung_api/internal/handler"
	"github.com/GTDGit/warung_api/internal/middleware"
	"github.com/GTDGit/warung_api/internal/repository"
	"github.com/GTDGit/warung_api/internal/service"
	"github.com/GTDGit/warung_api/internal/sse"
	"github.com/GTDGit/warung_api/internal/utils"
	"github.com/GTDGit/warung_api/internal/worker"
	"github.com/GTDGit/warung_api/pkg/telegram"
)

const (
	loginFailureLimit  = 10
	loginFailureWindow = 15 * time.Minute
)

// main is the application entrypoint for the store owner backend.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting warung api")

	if err := utils.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	// 3. Context for startup and graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Connect database
	db, err := database.Connect(ctx, &cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 4a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 4b. Connect to Redis
	redisClient, err := cache.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	statsCache := cache.NewStatsCache(redisClient, cfg.Cache.StatsTTL)
	revoked := cache.NewTokenBlacklist(redisClient)

	// 5. Telegram bots
	customerBot := telegram.NewClient(cfg.Telegram.BaseURL, cfg.Telegram.CustomerBotToken, "customer_bot")
	ownerBot := telegram.NewClient(cfg.Telegram.BaseURL, cfg.Telegram.OwnerBotToken, "owner_bot")
	if !customerBot.Configured() {
		log.Warn().Msg("CUSTOMER_BOT_TOKEN not set - customer notifications disabled")
	}
	if !ownerBot.Configured() {
		log.Warn().Msg("OWNER_BOT_TOKEN not set - owner reports disabled")
	}

	// 6. Initialize repositories
	storeRepo := repository.NewStoreRepository(db)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)

	// 7. Initialize services
	hub := sse.NewHub()
	events := sse.NewHubNotifier(hub)
	jwtManager := utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	loc := cfg.Store.Timezone

	notifySvc := service.NewNotificationService(customerBot, ownerBot, customerRepo)
	authSvc := service.NewAuthService(userRepo, storeRepo, jwtManager, revoked, cfg.Store.PhoneCountryCode, cfg.Telegram.OwnerBotUsername)
	orderSvc := service.NewOrderService(
		orderRepo, inventoryRepo, storeRepo,
		notifySvc, events, statsCache,
		cfg.Store.OrderListLimit, cfg.Store.PhoneCountryCode,
	)
	inventorySvc := service.NewInventoryService(inventoryRepo, categoryRepo, productRepo, events, statsCache)
	creditSvc := service.NewCreditService(orderRepo, cfg.Store.OverdueDays)
	dashboardSvc := service.NewDashboardService(orderRepo, inventoryRepo, statsCache, loc)
	customerSvc := service.NewCustomerService(customerRepo, cfg.Store.PhoneCountryCode)
	templateSvc := service.NewTemplateService(templateRepo, storeRepo, customerRepo, notifySvc, cfg.Store.PhoneCountryCode)
	reportSvc := service.NewReportService(orderRepo, inventoryRepo, summaryRepo, notifySvc, cfg.Store.CurrencySymbol, cfg.Store.OverdueDays, loc)

	// 8. Initialize handlers
	handlers := &Handlers{
		Health: handler.NewHealthHandler(
			func(ctx context.Context) error { return db.PingContext(ctx) },
			redisClient.Ping,
			hub,
		),
		Auth:      handler.NewAuthHandler(authSvc, cfg.IsProduction()),
		Dashboard: handler.NewDashboardHandler(dashboardSvc, creditSvc),
		Order:     handler.NewOrderHandler(orderSvc),
		Customer:  handler.NewCustomerHandler(customerSvc, templateSvc),
		Inventory: handler.NewInventoryHandler(inventorySvc),
		Settings:  handler.NewSettingsHandler(templateSvc),
		SSE:       handler.NewSSEHandler(hub),
	}

	// 9. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	loginLimiter := middleware.NewInvalidAuthRateLimiter(loginFailureLimit, loginFailureWindow)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.CORSMiddleware(cfg.DashboardOrigins))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, authSvc, loginLimiter)

	// 10. Start workers
	go loginLimiter.Cleanup(ctx, time.Minute)
	go worker.NewLowStockAlertWorker(storeRepo, reportSvc, cfg.Worker.LowStockAlertInterval).Start(ctx)
	go worker.NewDailyReportWorker(storeRepo, reportSvc, cfg.Worker.DailyReportHour, cfg.Worker.DailyReportMinute, cfg.Worker.SchedulerTick, loc).Start(ctx)
	go worker.NewCreditReminderWorker(storeRepo, reportSvc, cfg.Worker.CreditReminderHour, cfg.Worker.CreditReminderMinute, cfg.Worker.SchedulerTick, loc).Start(ctx)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Order     *handler.OrderHandler
	Customer  *handler.CustomerHandler
	Inventory *handler.InventoryHandler
	Settings  *handler.SettingsHandler
	SSE       *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, auth middleware.Authenticator, loginLimiter *middleware.InvalidAuthRateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Pages
	pages := router.Group("/", middleware.PageGate(auth))
	{
		pages.GET("/", handler.Page("dashboard"))
		pages.GET("/auth", handler.Page("auth"))
		pages.GET("/login", handler.Page("login"))
	}

	// Auth
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		authGroup.POST("/logout", middleware.SessionMiddleware(auth), handlers.Auth.Logout)
		authGroup.GET("/me", middleware.SessionMiddleware(auth), handlers.Auth.Me)
	}

	// Customer-facing ordering
	router.POST("/api/customer/order/:store_id", handlers.Order.PlaceOrder)

	// Owner routes (session required)
	owner := router.Group("/api/owner")
	owner.Use(middleware.SessionMiddleware(auth))
	{
		owner.GET("/stream", handlers.SSE.Stream)

		owner.GET("/customer-telegram/:phone", handlers.Customer.TelegramChatID)
		owner.POST("/send-promo", handlers.Customer.SendPromo)

		owner.PUT("/orders/:id/status", handlers.Order.UpdateStatus)
		owner.PUT("/orders/:id/payment", handlers.Order.UpdatePayment)

		store := owner.Group("", middleware.RequireStore())
		store.GET("/dashboard/:store_id", handlers.Dashboard.Stats)
		store.GET("/orders/:store_id", handlers.Order.List)
		store.GET("/orders/:store_id/:id", handlers.Order.Get)
		store.GET("/credit/:store_id", handlers.Dashboard.Credit)
		store.GET("/customers/:store_id", handlers.Customer.List)

		store.GET("/inventory/:store_id", handlers.Inventory.List)
		store.POST("/inventory/:store_id/products", handlers.Inventory.CreateProduct)
		store.PUT("/inventory/:store_id/items/:id/quantity", handlers.Inventory.UpdateQuantity)
		store.GET("/categories/:store_id", handlers.Inventory.ListCategories)
		store.POST("/categories/:store_id", handlers.Inventory.CreateCategory)

		store.GET("/settings/:store_id/template", handlers.Settings.GetTemplate)
		store.PUT("/settings/:store_id/template", handlers.Settings.SaveTemplate)
		store.POST("/settings/:store_id/template/preview", handlers.Settings.PreviewTemplate)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
