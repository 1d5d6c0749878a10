package bootstrap

import (
	"log"
	"os"
	"time"

	"mariia-hub-be/internal/config"
	"mariia-hub-be/internal/controller"
	"mariia-hub-be/internal/pkg/logger"
	"mariia-hub-be/internal/repository/unitofwork"
	"mariia-hub-be/internal/service"
	"mariia-hub-be/pkg/embedding"
	"mariia-hub-be/pkg/embedding/jina"
	"mariia-hub-be/pkg/llm/factory"
	"mariia-hub-be/pkg/rag"

	pktNats "mariia-hub-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	KnowledgeController controller.IKnowledgeController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for graceful shutdown
	SysLogger logger.ILogger
	NatsPub   *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.JinaAi)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)
	}

	// Repeated queries hit the embedding cache instead of the provider
	if cfg.Ai.EmbeddingCacheTTL > 0 {
		embeddingProvider = embedding.NewCachedProvider(
			embeddingProvider,
			time.Duration(cfg.Ai.EmbeddingCacheTTL)*time.Minute,
		)
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL(cfg),
		cfg.Ai.HuggingFaceApiKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// 4. Retrieval Engine
	engine := rag.NewEngine(
		rag.Config{
			EmbeddingModel:        cfg.Ai.EmbeddingModel,
			SimilarityThreshold:   cfg.Rag.SimilarityThreshold,
			MaxRetrievedDocuments: cfg.Rag.MaxRetrievedDocuments,
			IncludeMetadata:       cfg.Rag.IncludeMetadata,
			RerankResults:         cfg.Rag.RerankResults,
		},
		embeddingProvider,
		service.NewKnowledgeSearcher(uowFactory),
		llmProvider,
		log.New(os.Stdout, "[rag] ", log.LstdFlags),
	)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.ReindexTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.ReindexTopic,
		uowFactory,
		embeddingProvider,
	)

	knowledgeService := service.NewKnowledgeService(
		uowFactory,
		embeddingProvider,
		publisherService,
		natsPub,
		sysLogger,
	)

	// 6. Controllers
	return &Container{
		KnowledgeController: controller.NewKnowledgeController(knowledgeService, engine),

		ConsumerService: consumerService,
		SysLogger:       sysLogger,
		NatsPub:         natsPub,
	}
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "huggingface" {
		return cfg.Ai.HuggingFaceBaseURL
	}
	return cfg.Ai.OllamaBaseURL
}
