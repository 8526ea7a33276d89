package main

import (
	"context"
	"log"

	"auknowlog/internal/adapter/search"
	"auknowlog/internal/config"
	"auknowlog/internal/database"
	"auknowlog/internal/logger"
	"auknowlog/internal/repository"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const topicConcurrency = 4

// reindex rebuilds the search index from the question history table.
// Topics are processed concurrently; within a topic, questions are
// indexed in insertion order.
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

	db, err := database.NewPostgresDB(cfg.Database.URL)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	historyRepo := repository.NewQuestionHistoryAdapter(db)

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
	})
	if err != nil {
		appLogger.Fatal("Failed to create Elasticsearch client", zap.Error(err))
	}
	questionIndex := search.NewQuestionIndexAdapter(esClient, cfg.Elasticsearch.Index, cfg.Similarity.Analyzer, appLogger)

	ctx := context.Background()
	if err := questionIndex.EnsureIndex(ctx); err != nil {
		appLogger.Fatal("Failed to ensure search index", zap.Error(err))
	}

	topics, err := historyRepo.DistinctTopics(ctx)
	if err != nil {
		appLogger.Fatal("Failed to list topics", zap.Error(err))
	}
	appLogger.Info("Reindexing question history", zap.Int("topics", len(topics)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(topicConcurrency)
	for _, topic := range topics {
		topic := topic
		g.Go(func() error {
			questions, err := historyRepo.ListByTopic(gctx, topic)
			if err != nil {
				return err
			}
			for _, q := range questions {
				if err := questionIndex.Index(gctx, q); err != nil {
					return err
				}
			}
			appLogger.Info("Reindexed topic",
				zap.String("topic", topic),
				zap.Int("questions", len(questions)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		appLogger.Fatal("Reindex failed", zap.Error(err))
	}
	appLogger.Info("Reindex complete")
}
