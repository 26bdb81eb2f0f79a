package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aeroforge/aerobbs/config"
	"github.com/aeroforge/aerobbs/controllers"
	"github.com/aeroforge/aerobbs/middleware"
	"github.com/aeroforge/aerobbs/services"
	"github.com/aeroforge/aerobbs/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	renderService := services.NewRenderService(cfg.RenderServiceURL, time.Duration(cfg.RenderTimeoutSec)*time.Second, utils.Sugar)

	authController := controllers.NewAuthController(db)
	threadController := controllers.NewThreadController(db)
	commentController := controllers.NewCommentController(db)
	voteController := controllers.NewVoteController(db)
	fileController := controllers.NewFileController(db)
	renderController := controllers.NewRenderController(db, renderService)

	api := r.Group("/api")

	public := api.Group("")
	public.Use(middleware.RateLimitMiddleware())
	public.POST("/register", authController.Register)
	public.POST("/login", authController.Login)

	api.GET("/file/:name", fileController.GetFile)
	api.GET("/threads", threadController.List)
	api.GET("/threads/:id", threadController.Get)
	api.GET("/comments/:thread_id", commentController.ListForThread)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())

	protected.POST("/logout", authController.Logout)
	protected.GET("/me", authController.Me)
	protected.GET("/users", authController.ListUsers)
	protected.GET("/users/:id", authController.GetUser)
	protected.DELETE("/users/:id", authController.DeleteUser)
	protected.POST("/access-keys", authController.MintAccessKey)

	protected.POST("/thread", threadController.Create)
	protected.PUT("/threads/:id", threadController.Update)
	protected.DELETE("/threads/:id", threadController.Delete)

	protected.POST("/comment", commentController.Create)
	protected.PUT("/comments/:id", commentController.Update)
	protected.DELETE("/comments/:id", commentController.Delete)

	protected.PUT("/vote", voteController.Cast)

	protected.POST("/upload", fileController.Upload)
	protected.POST("/render/:attachment_id", renderController.Render)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
