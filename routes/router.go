package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teambuildf/oraville-backend/config"
	"github.com/teambuildf/oraville-backend/controllers"
	"github.com/teambuildf/oraville-backend/middleware"
	"github.com/teambuildf/oraville-backend/services"
	"github.com/teambuildf/oraville-backend/utils"
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

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	ledger := services.NewLedger(db)
	userService := services.NewUserService(db, ledger)
	taskService := services.NewTaskService(db, ledger)
	leaderboardService := services.NewLeaderboardService(db)

	authController := controllers.NewAuthController(userService)
	userController := controllers.NewUserController(userService, ledger)
	taskController := controllers.NewTaskController(taskService)
	walletController := controllers.NewWalletController(ledger, userService)
	dashboardController := controllers.NewDashboardController(userService, ledger, leaderboardService)
	leaderboardController := controllers.NewLeaderboardController(leaderboardService)
	contentController := controllers.NewContentController()

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/telegram", authController.TelegramAuth)

	// Public content
	api.GET("/content/faq", contentController.GetFAQ)
	api.GET("/leaderboard/referrals/weekly", leaderboardController.GetWeeklyReferrals)
	api.GET("/leaderboard/ambassadors", leaderboardController.GetAmbassadors)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.GET("/user/profile", userController.GetProfile)
	protected.PUT("/user/profile", userController.UpdateProfile)
	protected.GET("/user/avatar/upload-url", userController.GetAvatarUploadURL)
	protected.POST("/user/avatar/confirm", userController.ConfirmAvatar)
	protected.GET("/dashboard", dashboardController.GetDashboard)
	protected.GET("/tasks/daily", taskController.GetDailyTasks)
	protected.POST("/tasks/:taskId/complete", taskController.CompleteTask)
	protected.POST("/tasks/verify/facescan", taskController.VerifyFaceScan)
	protected.GET("/tasks/current-streak", taskController.GetCurrentStreak)
	protected.GET("/wallet/transactions", walletController.GetTransactions)
	protected.GET("/wallet/referrals", walletController.GetReferrals)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "endpoint not found")
	})

	return r
}
