package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/estimmo/backend/internal/delivery/http"
	"github.com/estimmo/backend/internal/pricing"
	"github.com/estimmo/backend/internal/repository/postgres"
	"github.com/estimmo/backend/internal/service"
	"github.com/estimmo/backend/internal/vision"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Configuration
	cfg := loadConfig()

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: Could not connect to database: %v", err)
			log.Println("Running without estimation history persistence")
			pool = nil
		} else {
			defer pool.Close()
			log.Println("Connected to PostgreSQL")
		}
	}

	// Dependency Injection: Repositories
	var repo service.EstimationRepository
	if pool != nil {
		repo = postgres.NewPostgresRepository(pool)
	} else {
		repo = postgres.NewMockRepository()
	}

	// Dependency Injection: Services
	cadastreSvc := service.NewCadastreService(cfg.CadastreAPIURL)
	salesSvc := service.NewSalesService(cfg.SalesAPIURL)
	energySvc := service.NewEnergyService(cfg.EnergyAPIURL, cfg.GeocodeAPIURL)
	analyzer := vision.NewAnalyzer()
	engine := pricing.NewEngine()
	estimateSvc := service.NewEstimateService(cadastreSvc, salesSvc, energySvc, analyzer, engine, repo)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Estimmo API v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    32 * 1024 * 1024, // multi-photo uploads
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	http.SetupRoutes(app, estimateSvc)

	// Graceful shutdown
	go func() {
		port := cfg.Port
		if port == "" {
			port = "8080"
		}
		log.Printf("Server starting on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	estimateSvc.WaitBackground()
	log.Println("Server exited gracefully")
}

type Config struct {
	DatabaseURL    string
	CadastreAPIURL string
	SalesAPIURL    string
	EnergyAPIURL   string
	GeocodeAPIURL  string
	Port           string
	Env            string
}

func loadConfig() *Config {
	return &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		CadastreAPIURL: getEnv("CADASTRE_API_URL", "https://apicarto.ign.fr/api"),
		SalesAPIURL:    getEnv("SALES_API_URL", "https://api.cquest.org"),
		EnergyAPIURL:   getEnv("ENERGY_API_URL", ""),
		GeocodeAPIURL:  getEnv("GEOCODE_API_URL", "https://api-adresse.data.gouv.fr"),
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("GO_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
