package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Apashash/Qashgo-new/internal/auth"
	"github.com/Apashash/Qashgo-new/internal/config"
	"github.com/Apashash/Qashgo-new/internal/database"
	"github.com/Apashash/Qashgo-new/internal/handlers"
	"github.com/Apashash/Qashgo-new/internal/jobs"
	"github.com/Apashash/Qashgo-new/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	referralService := services.NewReferralService(database.GetDB())
	userService := services.NewUserService(database.GetDB(), referralService)
	authService := services.NewAuthService(database.GetDB())
	earningService := services.NewEarningService(database.GetDB())
	withdrawalService := services.NewWithdrawalService(database.GetDB())

	if err := earningService.SeedVideos(); err != nil {
		log.Printf("Warning: failed to seed videos: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	referralHandler := handlers.NewReferralHandler(referralService, userService, cfg.App.FrontendURL)
	earningHandler := handlers.NewEarningHandler(earningService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService, cfg.App.AdminUsers)

	// Start withdrawal reconciliation job (runs every hour, flags
	// withdrawals pending for more than 48 hours)
	reconciler := jobs.NewWithdrawalReconcilerJob(database.GetDB(), 48*time.Hour)
	reconciler.Start(time.Hour)
	log.Println("Withdrawal reconciler job started")

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if cfg.App.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.App.FrontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// User endpoints
		userRoutes := api.Group("/user")
		{
			userRoutes.GET("/profile", userHandler.GetProfile)
			userRoutes.POST("/activate", userHandler.ActivateAccount)
			userRoutes.GET("/transactions", userHandler.GetTransactions)
		}

		// Referral endpoints
		api.GET("/referral/overview", referralHandler.GetOverview)
		api.GET("/referral/bonus", referralHandler.GetBonus)
		api.POST("/referral/bonus/claim", referralHandler.ClaimBonus)

		// Video earning endpoints
		api.GET("/videos/:channel", earningHandler.ListVideos)
		api.POST("/videos/claim", earningHandler.ClaimWatch)

		// Withdrawal endpoints
		api.POST("/withdrawals", withdrawalHandler.RequestWithdrawal)
		api.GET("/withdrawals", withdrawalHandler.GetWithdrawals)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(withdrawalHandler.AdminMiddleware())
	{
		admin.PUT("/withdrawals/:id/status", withdrawalHandler.UpdateStatus)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
