package router

import (
	"net/http"
	"strings"

	"fandomapp/internal/config"
	"fandomapp/internal/database"
	"fandomapp/internal/handlers"
	"fandomapp/internal/logger"
	"fandomapp/internal/media"
	"fandomapp/internal/metrics"
	"fandomapp/internal/middleware"
	"fandomapp/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Services *service.Services
	Auth     *middleware.Authenticator
	Logger   *zap.Logger
}

// Setup configures and returns the Gin router
func Setup(deps Deps) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg))
	router.Use(deps.Auth.Middleware())
	router.Use(middleware.Flashes(cfg.IsProduction()))
	router.Use(logger.Gin(log.Named("http")))
	router.Use(metrics.Middleware())

	// Operational endpoints
	router.GET("/metrics", metrics.Handler())
	router.GET("/healthz", func(c *gin.Context) {
		if err := database.Ping(c.Request.Context(), deps.DB); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MediaBackend == "local" {
		router.Static(strings.TrimSuffix(media.URLPrefix, "/"), cfg.UploadDir)
	}

	// Initialize handlers
	homeHandler := handlers.NewHomeHandler(deps.Services.Home, log)
	authHandler := handlers.NewAuthHandler(deps.Services.Accounts, deps.Auth, log)
	profileHandler := handlers.NewProfileHandler(deps.Services.Profiles, log)
	postHandler := handlers.NewPostHandler(deps.Services.Posts, log)
	discussionHandler := handlers.NewDiscussionHandler(deps.Services.Discussions, log)
	fanficHandler := handlers.NewFanficHandler(deps.Services.Fanfics, log)

	auth := middleware.RequireAuth()

	router.GET("/", homeHandler.Home)

	// Authentication routes
	router.GET("/register", authHandler.RegisterForm)
	router.POST("/register", authHandler.Register)
	router.GET("/login", authHandler.LoginForm)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)
	router.POST("/account/delete", auth, authHandler.DeleteAccount)

	// Profiles
	profiles := router.Group("/profile", auth)
	{
		profiles.GET("/edit", profileHandler.EditForm)
		profiles.POST("/edit", profileHandler.Edit)
		profiles.GET("/:username", profileHandler.View)
	}

	// Posts routes
	posts := router.Group("/posts")
	{
		posts.GET("", postHandler.List)
		posts.GET("/create", auth, postHandler.CreateForm)
		posts.POST("/create", auth, postHandler.Create)
		posts.GET("/:id", postHandler.Detail)
		posts.GET("/:id/edit", auth, postHandler.EditForm)
		posts.POST("/:id/edit", auth, postHandler.Edit)
		posts.GET("/:id/delete", auth, postHandler.DeleteConfirm)
		posts.POST("/:id/delete", auth, postHandler.Delete)
		posts.POST("/:id/like", auth, postHandler.Like)
	}

	// Discussions routes, comments are posted to the discussion itself
	discussions := router.Group("/discussions")
	{
		discussions.GET("", discussionHandler.List)
		discussions.GET("/create", auth, discussionHandler.CreateForm)
		discussions.POST("/create", auth, discussionHandler.Create)
		discussions.GET("/:id", discussionHandler.Detail)
		discussions.POST("/:id", auth, discussionHandler.Comment)
		discussions.GET("/:id/edit", auth, discussionHandler.EditForm)
		discussions.POST("/:id/edit", auth, discussionHandler.Edit)
		discussions.GET("/:id/delete", auth, discussionHandler.DeleteConfirm)
		discussions.POST("/:id/delete", auth, discussionHandler.Delete)
	}

	// Fanfics routes
	fanfics := router.Group("/fanfics")
	{
		fanfics.GET("", fanficHandler.List)
		fanfics.GET("/create", auth, fanficHandler.CreateForm)
		fanfics.POST("/create", auth, fanficHandler.Create)
		fanfics.GET("/:id", fanficHandler.Detail)
		fanfics.GET("/:id/edit", auth, fanficHandler.EditForm)
		fanfics.POST("/:id/edit", auth, fanficHandler.Edit)
		fanfics.GET("/:id/delete", auth, fanficHandler.DeleteConfirm)
		fanfics.POST("/:id/delete", auth, fanficHandler.Delete)
		fanfics.POST("/:id/like", auth, fanficHandler.Like)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"page": "not_found", "error": "Page not found"})
	})

	return router
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	origins := cfg.Origins()
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AddAllowHeaders("Authorization")
	return cors.New(corsCfg)
}
