package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"auknowlog/internal/adapter"
	"auknowlog/internal/adapter/gemini"
	"auknowlog/internal/adapter/gitrepo"
	"auknowlog/internal/adapter/notion"
	"auknowlog/internal/adapter/search"
	"auknowlog/internal/cache"
	"auknowlog/internal/config"
	"auknowlog/internal/database"
	"auknowlog/internal/handler"
	"auknowlog/internal/logger"
	"auknowlog/internal/middleware"
	"auknowlog/internal/repository"
	"auknowlog/internal/service"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewPostgresDB(cfg.Database.URL)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	historyRepo := repository.NewQuestionHistoryAdapter(db)

	// Initialize Elasticsearch
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
	})
	if err != nil {
		appLogger.Fatal("Failed to create Elasticsearch client", zap.Error(err))
	}
	questionIndex := search.NewQuestionIndexAdapter(esClient, cfg.Elasticsearch.Index, cfg.Similarity.Analyzer, appLogger)
	if err := questionIndex.EnsureIndex(context.Background()); err != nil {
		appLogger.Warn("Failed to ensure search index, similarity checks may degrade", zap.Error(err))
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize LLM client
	llmClient, err := gemini.NewClient(cfg.LLM.APIURL, cfg.LLM.Model, cfg.LLM.APIKey, cfg.LLM.Timeout, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	// Initialize services
	previewCache := service.NewPreviewCacheService(
		historyRepo, cacheAdapter,
		cfg.Generator.RecentPreviewLimit, cfg.Generator.PreviewCharLimit,
		cfg.Generator.PreviewCacheTTL, appLogger,
	)
	duplicateGate := service.NewDuplicateGate(historyRepo, questionIndex, cfg.Similarity.Threshold, appLogger)
	generator := service.NewQuizGenerator(
		llmClient, historyRepo, questionIndex, duplicateGate, previewCache,
		cfg.Generator.MaxAttempts, cfg.Generator.MaxCountPerRequest, appLogger,
	)
	documentService := service.NewDocumentService(cfg.Document.SaveDir, appLogger)
	notionClient := notion.NewClient(cfg.Notion.APIKey, cfg.Notion.Version, cfg.Notion.ParentPageID, appLogger)
	gitClient := gitrepo.NewClient(cfg.Git.WorkDir, cfg.Git.Remote, cfg.Git.Branch, appLogger)

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(generator)
	documentHandler := handler.NewDocumentHandler(documentService, notionClient, gitClient)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")

	quizGroup := apiGroup.Group("/quizzes")
	quizGroup.Post("/create", quizHandler.CreateQuiz)
	quizGroup.Post("/dummy", quizHandler.CreateDummyQuiz)
	quizGroup.Post("/markdown", quizHandler.RenderMarkdown)

	documentGroup := apiGroup.Group("/documents")
	documentGroup.Post("/save-quiz-markdown-raw", documentHandler.SaveMarkdown)
	documentGroup.Post("/save-quiz-notion", documentHandler.SaveToNotion)
	documentGroup.Post("/save-quiz-git", documentHandler.SaveToGit)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
