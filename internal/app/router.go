package app

import (
	"mentorhub_backend/docs"
	"mentorhub_backend/internal/config"
	"mentorhub_backend/internal/middleware"
	"mentorhub_backend/internal/model"

	"mentorhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerViewerRoutes(authGroup, c)
		a.registerMentorRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerViewerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)

	catalog := rg.Group("/catalog")
	{
		catalog.GET("/home", c.catalog.Home)
		catalog.GET("/search", c.catalog.Search)
		catalog.GET("/categories", c.catalog.ListCategories)
		catalog.GET("/categories/:name", c.catalog.ByCategory)
		catalog.GET("/continue-watching", c.catalog.ContinueWatching)
		catalog.GET("/completed", c.catalog.Completed)
	}

	rg.GET("/courses/:id", c.catalog.CourseDetail)

	progress := rg.Group("/progress")
	{
		progress.GET("", c.progress.List)
		progress.GET("/lessons/:lessonId", c.progress.Get)
	}

	playback := rg.Group("/playback/sessions")
	{
		playback.POST("", c.playback.StartSession)
		playback.GET("/:id", c.playback.GetSession)
		playback.DELETE("/:id", c.playback.CloseSession)
		playback.POST("/:id/play", c.playback.Play)
		playback.POST("/:id/pause", c.playback.Pause)
		playback.POST("/:id/seek", c.playback.Seek)
		playback.POST("/:id/progress", c.playback.Progress)
		playback.POST("/:id/ended", c.playback.Ended)
		playback.POST("/:id/error", c.playback.Error)
	}

	rg.GET("/videos/:id/playback-url", c.media.PlaybackURL)

	favorites := rg.Group("/favorites")
	{
		favorites.GET("", c.favorite.List)
		favorites.POST("/:id", c.favorite.Add)
		favorites.DELETE("/:id", c.favorite.Remove)
	}
}

func (a *App) registerMentorRoutes(rg *gin.RouterGroup, c *controllers) {
	mentor := rg.Group("/mentor")
	mentor.Use(middleware.RoleMiddleware(model.RoleMentor))
	{
		mentor.POST("/videos", c.media.UploadVideo)
	}
}
