package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"inclusiveai/skill-assessment/internal/config"
	"inclusiveai/skill-assessment/internal/handlers"
	"inclusiveai/skill-assessment/internal/repositories"
	"inclusiveai/skill-assessment/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	assessmentRepo := repositories.NewAssessmentRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize auth
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize storage
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}
	pdfParser := services.NewPDFParserService()
	log.Println("✅ Services initialized successfully")

	// Initialize LLM gateway
	gateway, err := services.NewGateway(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize LLM gateway: %v", err)
	}
	log.Printf("✅ LLM gateway initialized (provider: %s)", cfg.LLM.Provider)

	// The knowledge base needs Gemini embeddings; without them question
	// generation simply runs without reference material.
	var knowledge services.ContextRetriever
	if strings.EqualFold(cfg.LLM.Provider, "gemini") {
		embedder, err := services.NewGeminiGateway(cfg.LLM.GeminiAPIKey, "")
		if err != nil {
			log.Fatalf("❌ Failed to initialize embedder: %v", err)
		}
		knowledgeService, err := services.NewKnowledgeService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			embedder,
		)
		if err != nil {
			log.Printf("⚠️  Knowledge base unavailable: %v", err)
		} else if err := knowledgeService.InitCollection(); err != nil {
			log.Printf("⚠️  Failed to initialize knowledge collection: %v", err)
		} else {
			knowledge = knowledgeService
			log.Println("✅ Knowledge base initialized successfully")
		}
	}

	// Initialize the agent crew
	crew := services.NewHiringCrew(gateway, knowledge, cfg.LLM.StrictAIErrors)
	log.Println("✅ Hiring crew initialized")

	// Initialize and start the report worker
	worker := services.NewWorker(reportRepo, crew, cfg.Worker.Concurrency)
	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Report worker started successfully")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, authService)
	assessmentHandler := handlers.NewAssessmentHandler(
		assessmentRepo,
		userRepo,
		crew,
		cfg.Assessment.QuestionCount,
	)
	hrHandler := handlers.NewHRHandler(
		reportRepo,
		userRepo,
		crew,
		worker,
		storageService,
		pdfParser,
		cfg.Storage.MaxFileSize,
	)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Inclusive Skill Assessment API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	requireAuth := handlers.RequireAuth(authService)
	requireHR := handlers.RequireRole("hr")

	auth := app.Group("/auth")
	auth.Post("/register", authHandler.HandleRegister)
	auth.Post("/login", authHandler.HandleLogin)
	auth.Get("/me", requireAuth, authHandler.HandleMe)
	auth.Put("/profile/update", requireAuth, authHandler.HandleProfileUpdate)

	assessment := app.Group("/assessment", requireAuth)
	assessment.Post("/generate", assessmentHandler.HandleGenerate)
	assessment.Post("/submit", assessmentHandler.HandleSubmit)

	hr := app.Group("/hr", requireAuth, requireHR)
	hr.Post("/parse_resume", hrHandler.HandleParseResume)
	hr.Post("/upload_resume", hrHandler.HandleUploadResume)
	hr.Post("/reports", hrHandler.HandleCreateReport)
	hr.Get("/reports/:id", hrHandler.HandleGetReport)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Inclusive Skill Assessment API is running",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /auth/register",
				"POST /auth/login",
				"GET /auth/me",
				"PUT /auth/profile/update",
				"POST /assessment/generate",
				"POST /assessment/submit",
				"POST /hr/parse_resume",
				"POST /hr/upload_resume",
				"POST /hr/reports",
				"GET /hr/reports/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
