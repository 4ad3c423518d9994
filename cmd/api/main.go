package main

import (
	"fmt"
	"net/http"
	"os"

	"agora/internal/config"
	"agora/internal/database"
	"agora/internal/handlers"
	"agora/internal/logger"
	"agora/internal/middleware"
	"agora/internal/services"
	"agora/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "agora/internal/docs" // Import swagger docs
)

// @title           Agora API
// @version         1.0
// @description     Agora is a participatory budgeting engine: cities publish budget cycles, citizens propose capital projects and vote, and the engine allocates the budget to the most supported proposals.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	cycleService := services.NewCycleService(db)
	proposalService := services.NewProposalService(db, cycleService)
	voteService := services.NewVoteService(db)
	allocationService := services.NewAllocationService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	cycleHandler := handlers.NewCycleHandler(cycleService, auditService)
	proposalHandler := handlers.NewProposalHandler(proposalService, auditService)
	voteHandler := handlers.NewVoteHandler(voteService, auditService)
	allocationHandler := handlers.NewAllocationHandler(allocationService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Cycle routes
	cycles := protected.Group("/cycles")
	cycles.GET("", cycleHandler.GetCycles)
	cycles.GET("/:cycle_id", cycleHandler.GetCycle)
	cycles.GET("/:cycle_id/winners", allocationHandler.GetWinners)

	// Proposal routes
	cycles.POST("/:cycle_id/proposals", proposalHandler.SubmitProposal)
	cycles.GET("/:cycle_id/proposals", proposalHandler.GetCycleProposals)
	cycles.GET("/:cycle_id/proposals/votable", proposalHandler.GetVotableProposals)
	protected.GET("/proposals/:proposal_id", proposalHandler.GetProposal)

	// Vote routes
	cycles.POST("/:cycle_id/votes", voteHandler.CastVote)
	cycles.GET("/:cycle_id/votes/mine", voteHandler.GetMyVotes)
	cycles.GET("/:cycle_id/quota", voteHandler.GetQuota)
	protected.GET("/proposals/:proposal_id/tally", voteHandler.GetTally)

	// Staff-only routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/cycles", cycleHandler.CreateCycle)
	admin.PATCH("/cycles/:cycle_id/active", cycleHandler.SetCycleActive)
	admin.PATCH("/cycles/:cycle_id/windows", cycleHandler.UpdateCycleWindows)
	admin.POST("/cycles/:cycle_id/simulate", allocationHandler.Simulate)
	admin.POST("/cycles/:cycle_id/finalize", allocationHandler.Finalize)
	admin.PATCH("/proposals/:proposal_id/status", proposalHandler.UpdateProposalStatus)

	log.Infof("Starting Agora backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
