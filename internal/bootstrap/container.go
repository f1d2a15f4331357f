package bootstrap

import (
	"context"
	"log"

	"team-knowledge-be/internal/config"
	"team-knowledge-be/internal/controller"
	"team-knowledge-be/internal/handler"
	"team-knowledge-be/internal/pkg/logger"
	"team-knowledge-be/internal/pkg/mailer"
	"team-knowledge-be/internal/repository/memory"
	"team-knowledge-be/internal/repository/unitofwork"
	"team-knowledge-be/internal/service"
	"team-knowledge-be/internal/websocket"
	"team-knowledge-be/pkg/embedding"
	"team-knowledge-be/pkg/enrichment"
	"team-knowledge-be/pkg/llm"
	"team-knowledge-be/pkg/llm/factory"
	pktNats "team-knowledge-be/pkg/nats"
	"team-knowledge-be/pkg/qa"
	"team-knowledge-be/pkg/retrieval"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	DocumentController controller.IDocumentController
	ActivityController controller.IActivityController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	ActivityWsHandler *handler.ActivityWsHandler
	WebSocketHub      *websocket.Hub

	// Shared application logger
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	embeddingProvider = embedding.NewRateLimitedProvider(embeddingProvider, cfg.Ai.ProviderRPM)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	llmProvider = llm.NewRateLimitedProvider(llmProvider, cfg.Ai.ProviderRPM)
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	pipeline := enrichment.NewPipeline(llmProvider, embeddingProvider)
	ranker := retrieval.NewRanker(embeddingProvider)
	orchestrator := qa.NewOrchestrator(ranker, llmProvider)

	nameCache := memory.NewUserNameCache()

	// 4. Infrastructure
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	// WebSocket hub with its own log file so feed chatter stays out of app logs
	wsLogger := logger.NewIsolatedLogger("logs/activity.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.ActivityTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.ActivityTopic,
		uowFactory,
		wsHub,
	)

	authService := service.NewAuthService(uowFactory, emailService, cfg.App.JwtSecret)
	documentService := service.NewDocumentService(
		uowFactory,
		pipeline,
		ranker,
		orchestrator,
		publisherService,
		natsPub,
		nameCache,
	)
	activityService := service.NewActivityService(uowFactory)

	activityWsHandler := handler.NewActivityWsHandler(wsHub, cfg.App.JwtSecret, wsLogger)

	// 6. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		DocumentController: controller.NewDocumentController(documentService),
		ActivityController: controller.NewActivityController(activityService),
		ConsumerService:    consumerService,
		ActivityWsHandler:  activityWsHandler,
		WebSocketHub:       wsHub,
		Logger:             sysLogger,
	}
}
