package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/newcooks/backend/config"
	"github.com/newcooks/backend/internal/api"
	"github.com/newcooks/backend/internal/database"
	"github.com/newcooks/backend/internal/middleware"
	"github.com/newcooks/backend/internal/server"
	"github.com/newcooks/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var regLimiter, createLimiter *middleware.RateLimiter
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
	} else {
		regLimiter = middleware.NewRegistrationRateLimiter(redisClient)
		createLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
	}

	var images service.ImageStore
	s3cfg, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Printf("S3 unavailable, image uploads disabled: %v", err)
	} else {
		images = service.NewS3ImageStore(s3cfg)
	}

	mailer := service.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)

	authService := service.NewAuthService(db, cfg.JWTSecret, mailer, cfg.AppBaseURL)
	chefService := service.NewChefService(db, images)
	userService := service.NewUserService(db, images)
	recipeService := service.NewRecipeService(db, images)
	ratingService := service.NewRatingService(db)
	reviewService := service.NewReviewService(db)
	analyticsService := service.NewAnalyticsService(db)

	handlers := &api.Handlers{
		Auth:   api.NewAuthHandler(authService, regLimiter),
		Chef:   api.NewChefHandler(chefService, recipeService, analyticsService, authService, createLimiter),
		User:   api.NewUserHandler(userService, ratingService, reviewService, analyticsService, authService),
		Recipe: api.NewRecipeHandler(recipeService, ratingService, reviewService),
	}

	var origins []string
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ",")
	}

	srv, err := server.New(handlers, origins)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}
	if err := srv.Start(cfg.ServerHost + ":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
