package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"unimaterials/internal/config"
	"unimaterials/internal/handlers"
	"unimaterials/internal/repositories"
	"unimaterials/internal/routes"
	"unimaterials/internal/services"
	"unimaterials/internal/storage"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

const otpEvictionInterval = time.Minute

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	materialRepo := repositories.NewMaterialRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	tokenService := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	authService := services.NewAuthService(
		userRepo,
		otpRepo,
		emailService,
		cfg.Auth.AllowedDomain,
		cfg.Auth.OTPTTL(),
	)

	fileStore := storage.NewFileStore(cfg.Files.RootDir, cfg.Files.PublicBaseURL)
	materialService := services.NewMaterialService(materialRepo, fileStore)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService, tokenService)
	materialHandler := handlers.NewMaterialHandler(materialService)

	// second line of defense behind the verify-path expiry check
	go evictExpiredOTPs(otpRepo)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.Static("/uploads", cfg.Files.RootDir)

	routes.SetupRoutes(router, authHandler, materialHandler, tokenService)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func evictExpiredOTPs(otpRepo repositories.OTPRepository) {
	ticker := time.NewTicker(otpEvictionInterval)
	defer ticker.Stop()
	for range ticker.C {
		n, err := otpRepo.DeleteExpired()
		if err != nil {
			log.Printf("[otp][evict] failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("[otp][evict] removed %d expired codes", n)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
