package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sldmxm/yatube-final/config"
	"github.com/sldmxm/yatube-final/controllers"
	"github.com/sldmxm/yatube-final/middleware"
	"github.com/sldmxm/yatube-final/utils"
)

// SetupRouter wires routes, middlewares, and controllers. The page cache and
// token blacklist are injected so tests can swap them out.
func SetupRouter(db *gorm.DB, cache utils.PageCache, blacklist *utils.TokenBlacklist) *gin.Engine {
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
		// fallback to default recovery if logger failed to init
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

	// Record content page views after each request
	r.Use(middleware.PageViewRecorder(db))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	postController := controllers.NewPostController(db, cache)
	followController := controllers.NewFollowController(db)
	authController := controllers.NewAuthController(db, blacklist)
	groupController := controllers.NewGroupController(db, cache)
	statsController := controllers.NewStatsController(db)
	pagesController := controllers.NewPagesController()

	optional := middleware.OptionalAuth(blacklist)
	required := middleware.AuthRequired(blacklist)

	// Public feeds and pages. OptionalAuth lets the profile view compute the
	// caller's follow flag.
	r.GET("/", optional, postController.Index)
	r.GET("/group/:slug", optional, postController.GroupPosts)
	r.GET("/profile/:username", optional, postController.Profile)
	r.GET("/posts/:id", optional, postController.PostDetail)
	r.GET("/groups", groupController.ListGroups)
	r.GET("/stats", statsController.GetStats)
	r.GET("/posts/:id/stats", statsController.GetPostStats)
	r.GET("/about/author", pagesController.AboutAuthor)
	r.GET("/about/tech", pagesController.AboutTech)

	// Authentication
	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.GET("/signup", authController.SignupPage)
	authGroup.POST("/signup", authController.Signup)
	authGroup.GET("/login", authController.LoginPage)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", required, authController.Logout)
	authGroup.GET("/me", required, authController.Me)

	// Authenticated surface: anything that writes, plus the follow feed.
	protected := r.Group("")
	protected.Use(required)
	protected.GET("/follow", postController.FollowIndex)
	protected.GET("/create", postController.CreatePostPage)
	protected.POST("/create", middleware.RateLimitMiddleware(), postController.CreatePost)
	protected.GET("/posts/:id/edit", postController.EditPostPage)
	protected.POST("/posts/:id/edit", middleware.RateLimitMiddleware(), postController.EditPost)
	protected.POST("/posts/:id/comment", middleware.RateLimitMiddleware(), postController.AddComment)
	protected.GET("/profile/:username/follow", followController.Follow)
	protected.GET("/profile/:username/unfollow", followController.Unfollow)
	protected.POST("/upload", middleware.RateLimitMiddleware(), postController.UploadImage)
	protected.POST("/groups", groupController.CreateGroup)
	protected.DELETE("/groups/:slug", groupController.DeleteGroup)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "page not found")
	})

	return r
}
