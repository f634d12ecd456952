package main

import (
	"log"
	"os"

	_ "github.com/Putra-pkwl03/claim-app/api/swagger" // swagger docs
	"github.com/Putra-pkwl03/claim-app/internal/database"
	"github.com/Putra-pkwl03/claim-app/internal/handler"
	"github.com/Putra-pkwl03/claim-app/internal/middleware"
	"github.com/Putra-pkwl03/claim-app/internal/repository"
	"github.com/Putra-pkwl03/claim-app/internal/service"
	"github.com/Putra-pkwl03/claim-app/internal/storage"
	"github.com/Putra-pkwl03/claim-app/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Mining Claim Reconciliation API
// @version         1.0
// @description     Contractor volume claims, surveyor counter-measurements, and threshold-based reconciliation.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "postgres")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		if err := database.SeedAdmin(db, email, os.Getenv("ADMIN_PASSWORD")); err != nil {
			log.Printf("WARNING: admin seed failed: %v", err)
		}
	}

	store, err := storage.NewLocalStore(envOr("STORAGE_DIR", "storage"), envOr("STORAGE_BASE_URL", "/files"))
	if err != nil {
		log.Fatalf("Storage init failed: %v", err)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	thresholdRepo := repository.NewThresholdRepository(db)
	claimRepo := repository.NewClaimRepository(db)
	surveyRepo := repository.NewSurveyorClaimRepository(db)
	signatureRepo := repository.NewSignatureRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	pitRepo := repository.NewPitRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	geoRepo := repository.NewGeoRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	reconciliationService := service.NewReconciliationService(claimRepo, surveyRepo, thresholdRepo)
	thresholdService := service.NewThresholdService(thresholdRepo, txManager)
	claimService := service.NewClaimService(claimRepo, blockRepo, reconciliationService, store, txManager)
	surveyorService := service.NewSurveyorService(surveyRepo, claimRepo, claimService, reconciliationService, store, txManager)
	reviewService := service.NewReviewService(claimRepo, surveyRepo, thresholdRepo, userRepo, wsHub, store, txManager)
	signatureService := service.NewSignatureService(signatureRepo, surveyRepo, claimRepo, thresholdRepo, txManager)
	siteService := service.NewSiteService(siteRepo, pitRepo, blockRepo, geoRepo, txManager)
	dashboardService := service.NewDashboardService(statsRepo, userRepo)

	// Initialize Handlers
	thresholdHandler := handler.NewThresholdHandler(thresholdService)
	claimHandler := handler.NewClaimHandler(claimService)
	surveyorHandler := handler.NewSurveyorHandler(surveyorService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	signatureHandler := handler.NewSignatureHandler(signatureService)
	siteHandler := handler.NewSiteHandler(siteService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Stored attachments
	router.Static("/files", envOr("STORAGE_DIR", "storage"))

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	thresholdHandler.RegisterRoutes(router.Group(""))
	claimHandler.RegisterRoutes(router.Group(""))
	surveyorHandler.RegisterRoutes(router.Group(""))
	reviewHandler.RegisterRoutes(router.Group(""))
	signatureHandler.RegisterRoutes(router.Group(""))
	siteHandler.RegisterRoutes(router.Group(""))
	dashboardHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
