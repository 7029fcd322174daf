package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/hiremind/internal/config"
	"alfredoptarigan/hiremind/internal/handlers"
	"alfredoptarigan/hiremind/internal/interview"
	"alfredoptarigan/hiremind/internal/logger"
	"alfredoptarigan/hiremind/internal/repositories"
	"alfredoptarigan/hiremind/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.Server.Env)
	logger.Logger.Info("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Logger.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	logger.Logger.Info("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Logger.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	documentParser := services.NewDocumentParserService()
	authService := services.NewAuthService(userRepo, cfg.Auth.SecretKey, cfg.Auth.TokenExpiry)
	resumeService := services.NewResumeService(resumeRepo, storageService, documentParser, cfg.Storage.MaxFileSize)
	logger.Logger.Info("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Worker.RetryInitialDelay)
	if err != nil {
		logger.Logger.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	logger.Logger.Info("✅ Gemini AI initialized successfully")

	// Initialize Qdrant. The career coach answers without reference guidance when it is unavailable.
	var knowledgeIndex services.QdrantService
	if cfg.Qdrant.Enabled {
		qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
		if err != nil {
			logger.Logger.Warnf("⚠️  Qdrant unavailable, career coach runs without reference guidance: %v", err)
		} else if err := qdrantService.InitCollection(context.Background()); err != nil {
			logger.Logger.Warnf("⚠️  Failed to initialize Qdrant collection: %v", err)
			qdrantService.Close()
		} else {
			knowledgeIndex = qdrantService
			logger.Logger.Info("✅ Qdrant initialized successfully")
		}
	}

	// Initialize message broker
	publisher, err := services.NewPublisher(cfg.Broker.URL)
	if err != nil {
		logger.Logger.Fatalf("❌ Failed to connect to message broker: %v", err)
	}

	// Initialize ATS analysis
	atsService := services.NewATSService(
		analysisRepo,
		services.NewATSAnalyzer(geminiService),
		geminiService,
		cfg.Worker.RetryMaxAttempts,
	)

	worker := services.NewWorker(
		analysisRepo,
		atsService,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)
	analysisService := services.NewAnalysisService(analysisRepo, resumeRepo, resumeService, worker)
	logger.Logger.Info("✅ ATS service initialized")

	// Initialize interviews
	questionBank := interview.NewQuestionBank()
	evaluator := interview.NewEvaluator()
	feedbackGenerator := interview.NewFeedbackGenerator(
		services.NewInterviewSummaryWriter(geminiService, cfg.Worker.RetryMaxAttempts),
	)

	interviewService := services.NewInterviewService(
		interviewRepo,
		resumeRepo,
		questionBank,
		evaluator,
		feedbackGenerator,
		cfg.Interview.QuestionCount,
	)

	manager := interview.NewManager(
		interview.NewStore(questionBank, cfg.Interview.QuestionCount),
		interview.NewPolicy(evaluator, cfg.Interview.Seed),
		feedbackGenerator,
		services.NewCompletionRecorder(interviewRepo, publisher, cfg.Broker.Exchange),
		interview.ManagerConfig{
			IdleTimeout:  cfg.Interview.IdleTimeout,
			WriteTimeout: cfg.Interview.WriteTimeout,
			Retention:    cfg.Interview.Retention,
			MaxHistory:   cfg.Interview.MaxHistory,
		},
	)
	realtimeService := services.NewRealtimeService(manager, interviewRepo, resumeRepo)
	logger.Logger.Info("✅ Interview services initialized")

	coachService := services.NewCareerCoachService(geminiService, knowledgeIndex, cfg.Worker.RetryMaxAttempts)

	// Start worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)
	logger.Logger.Info("✅ Worker started successfully")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "HireMind API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	handlers.SetupRoutes(app, &handlers.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Resume:    handlers.NewResumeHandler(resumeService),
		ATS:       handlers.NewATSHandler(analysisService),
		Interview: handlers.NewInterviewHandler(interviewService),
		Realtime:  handlers.NewRealtimeHandler(realtimeService, manager),
		Coach:     handlers.NewCoachHandler(coachService),
	})
	logger.Logger.Info("✅ Handlers initialized")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Logger.Info("🛑 Shutting down server...")
		worker.Stop()
		cancel()
		manager.Close()
		if err := app.Shutdown(); err != nil {
			logger.Logger.Errorf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Logger.Infof("🚀 Server starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		logger.Logger.Fatalf("❌ Failed to start server: %v", err)
	}

	publisher.Close()
	if knowledgeIndex != nil {
		knowledgeIndex.Close()
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
