package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"bzr-portal-be/internal/config"
	"bzr-portal-be/internal/constant"
	"bzr-portal-be/internal/controller"
	"bzr-portal-be/internal/handler"
	"bzr-portal-be/internal/pkg/logger"
	"bzr-portal-be/internal/pkg/mailer"
	"bzr-portal-be/internal/repository/memory"
	"bzr-portal-be/internal/repository/unitofwork"
	"bzr-portal-be/internal/service"
	"bzr-portal-be/internal/websocket"
	"bzr-portal-be/pkg/assembly"
	"bzr-portal-be/pkg/embedding"
	"bzr-portal-be/pkg/llm/factory"
	"bzr-portal-be/pkg/semcache"
	"bzr-portal-be/pkg/suggest"

	pktNats "bzr-portal-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// turnLockTTL caps how long a conversation stays locked if a worker dies
// mid-turn. Must exceed the suggestion timeout with headroom.
const turnLockTTL = 60 * time.Second

type Container struct {
	// Controllers
	ChatController  controller.IChatController
	AdminController controller.IAdminController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	EventsHandler *handler.EventsHandler
	WebSocketHub  *websocket.Hub
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

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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
	}

	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	turnLock := memory.NewTurnLock(rdb, turnLockTTL, sysLogger)

	// 5. Suggestion pipeline
	suggestLogger := initFileLogger("logs/suggest.log", "[SUGGEST] ")
	cache := semcache.NewCache(embeddingProvider, cfg.Ai.CacheThreshold, suggestLogger)
	suggestService := suggest.NewService(llmProvider, cache, cfg.Ai.SuggestionMaxResults, suggestLogger)
	suggester := suggest.NewEngineAdapter(suggestService, uowFactory)

	engine := assembly.NewEngine(
		assembly.Keywords{Yes: constant.YesKeywords, No: constant.NoKeywords},
		suggester,
		initFileLogger("logs/assembly.log", "[ASSEMBLY] "),
	)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.DocumentsTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.DocumentsTopic,
		natsPub,
		wsHub,
		emailService,
		cfg.SMTP.NotifyEmail,
	)

	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		engine,
		turnLock,
		publisherService,
	)

	adminService := service.NewAdminService(uowFactory, cache, sysLogger)

	// 7. Controllers and handlers
	return &Container{
		ChatController:  controller.NewChatController(chatService),
		AdminController: controller.NewAdminController(adminService),
		ConsumerService: consumerService,
		EventsHandler:   handler.NewEventsHandler(wsHub, wsLogger),
		WebSocketHub:    wsHub,
	}
}

func initFileLogger(path, prefix string) *log.Logger {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, prefix, log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
