package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulsebeat_backend/internal/config"
	"pulsebeat_backend/internal/controller"
	"pulsebeat_backend/internal/repository"
	"pulsebeat_backend/internal/service"
	"pulsebeat_backend/pkg/database"
	"pulsebeat_backend/pkg/logger"
	"pulsebeat_backend/pkg/monitoring"
	"pulsebeat_backend/pkg/security"
	"pulsebeat_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pending transactions older than this are swept to expired.
const pendingTransactionMaxAge = 24 * time.Hour

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	product     *repository.ProductRepository
	cart        *repository.CartRepository
	transaction *repository.TransactionRepository
	chat        *repository.ChatRepository
}

type services struct {
	auth    *service.AuthService
	storage *service.StorageService
	product *service.ProductService
	cart    *service.CartService
	payment *service.PaymentService
	ollama  *service.OllamaService
	chat    *service.ChatService
}

type controllers struct {
	auth    *controller.AuthController
	product *controller.ProductController
	cart    *controller.CartController
	payment *controller.PaymentController
	chat    *controller.ChatController
	review  *controller.ReviewController
	health  *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		product:     repository.NewProductRepository(db),
		cart:        repository.NewCartRepository(db),
		transaction: repository.NewTransactionRepository(db),
		chat:        repository.NewChatRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.product = service.NewProductService(repos.product, rdb)
	s.cart = service.NewCartService(repos.cart, repos.product)

	payment, err := service.NewPaymentService(cfg, repos.transaction, repos.cart, s.cart)
	if err != nil {
		logger.Log.Fatal("Failed to initialize payment service", zap.Error(err))
	}
	s.payment = payment

	responder := service.NewResponder()
	s.ollama = service.NewOllamaService(cfg)
	s.chat = service.NewChatService(repos.chat, s.product, s.ollama, responder)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		product: controller.NewProductController(s.product, s.storage),
		cart:    controller.NewCartController(s.cart),
		payment: controller.NewPaymentController(s.payment, s.auth),
		chat:    controller.NewChatController(s.chat),
		review:  controller.NewReviewController(repos.chat),
		health:  controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		for range ticker.C {
			s.payment.ExpireStale(pendingTransactionMaxAge)
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	router.HandleMethodNotAllowed = true
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("pulsebeat-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
