package app

import (
	"context"
	"log"
	"mentorhub_backend/internal/config"
	"mentorhub_backend/internal/controller"
	"mentorhub_backend/internal/repository"
	"mentorhub_backend/internal/service"
	"mentorhub_backend/pkg/database"
	"mentorhub_backend/pkg/logger"
	"mentorhub_backend/pkg/monitoring"
	"mentorhub_backend/pkg/security"
	"mentorhub_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	course   *repository.CourseRepository
	progress *repository.ProgressRepository
	favorite *repository.FavoriteRepository
}

type services struct {
	storage  *service.StorageService
	auth     *service.AuthService
	access   *service.AccessService
	progress *service.ProgressService
	catalog  *service.CatalogService
	playback *service.PlaybackService
	media    *service.MediaService
	favorite *service.FavoriteService
}

type controllers struct {
	auth     *controller.AuthController
	catalog  *controller.CatalogController
	progress *controller.ProgressController
	playback *controller.PlaybackController
	media    *controller.MediaController
	favorite *controller.FavoriteController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig fans a reloaded config out to the registered callbacks.
// Components opt in; nothing is restarted implicitly.
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		course:   repository.NewCourseRepository(db),
		progress: repository.NewProgressRepository(db),
		favorite: repository.NewFavoriteRepository(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.access = service.NewAccessService()
	s.progress = service.NewProgressService(repos.progress)
	s.catalog = service.NewCatalogService(repos.course, s.progress, s.access)
	s.playback = service.NewPlaybackService(repos.course, s.progress, s.access, s.storage)
	s.media = service.NewMediaService(repos.course, s.storage)
	s.favorite = service.NewFavoriteService(repos.favorite, repos.course, s.access)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		catalog:  controller.NewCatalogController(s.catalog),
		progress: controller.NewProgressController(s.progress),
		playback: controller.NewPlaybackController(s.playback),
		media:    controller.NewMediaController(s.media, s.access),
		favorite: controller.NewFavoriteController(s.favorite),
		health:   controller.NewHealthController(db, rdb),
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

// startBackgroundTasks reaps playback sessions that have gone quiet so
// their ledger references are released even when clients never close.
func (a *App) startBackgroundTasks(s *services) {
	maxIdle := time.Duration(a.Config.Playback.SessionIdleMinutes) * time.Minute
	go func() {
		ticker := time.NewTicker(time.Minute)
		for range ticker.C {
			s.playback.ReapIdleSessions(maxIdle)
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("mentorhub-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
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
