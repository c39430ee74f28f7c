package bootstrap

import (
	"context"
	"fmt"
	"log"

	"ai-tablechat-be/internal/config"
	"ai-tablechat-be/internal/controller"
	"ai-tablechat-be/internal/pkg/logger"
	"ai-tablechat-be/internal/repository/contract"
	"ai-tablechat-be/internal/repository/memory"
	"ai-tablechat-be/internal/repository/redisstore"
	"ai-tablechat-be/internal/service"
	"ai-tablechat-be/internal/websocket"
	"ai-tablechat-be/pkg/assistant"
	hostFactory "ai-tablechat-be/pkg/host/factory"
	llmFactory "ai-tablechat-be/pkg/llm/factory"
	"ai-tablechat-be/pkg/tabledata"

	pktNats "ai-tablechat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Core holds the table and inference components shared by the REST server
// and the CLI.
type Core struct {
	Logger    logger.ILogger
	Adapter   *tabledata.Adapter
	Assistant *assistant.Client
}

// NewCore connects to the configured host and inference provider.
func NewCore(cfg *config.Config) (*Core, error) {
	adapter, err := NewAdapter(cfg)
	if err != nil {
		return nil, err
	}
	client, err := NewAssistant(cfg)
	if err != nil {
		return nil, err
	}
	return &Core{
		Logger:    logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction()),
		Adapter:   adapter,
		Assistant: client,
	}, nil
}

// NewAdapter connects to the host selected by the configuration.
func NewAdapter(cfg *config.Config) (*tabledata.Adapter, error) {
	base, err := hostFactory.NewBase(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize host: %w", err)
	}
	return tabledata.NewAdapter(base), nil
}

// NewAssistant builds the inference client. Prompts and failures are logged
// to the isolated inference log.
func NewAssistant(cfg *config.Config) (*assistant.Client, error) {
	llmProvider, err := llmFactory.NewLLMProvider(llmFactory.Settings{
		Provider:    cfg.Ai.LLMProvider,
		Model:       cfg.Ai.LLMModel,
		BaseURL:     cfg.Ai.LLMBaseURL,
		APIKey:      cfg.Ai.LLMAPIKey,
		Temperature: cfg.Ai.Temperature,
		MaxTokens:   cfg.Ai.MaxTokens,
		TopP:        cfg.Ai.TopP,
		Timeout:     cfg.Ai.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	return assistant.NewClient(llmProvider, logger.NewIsolatedLogger(cfg.App.InferenceLogPath)), nil
}

type Container struct {
	// Controllers
	TableController controller.ITableController
	ChatController  controller.IChatController

	// WebSockets
	ChatHandler  *websocket.ChatHandler
	WebSocketHub *websocket.Hub

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger  logger.ILogger
	closers []func()
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	core, err := NewCore(cfg)
	if err != nil {
		return nil, err
	}
	c := &Container{Logger: core.Logger}

	// 2. Session Storage
	var rdb *redis.Client
	var sessionRepo contract.ISessionRepository
	if cfg.App.SessionStore == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		c.closers = append(c.closers, func() { rdb.Close() })
		sessionRepo = redisstore.NewSessionRepository(rdb, cfg.App.SessionTTL)
	} else {
		sessionRepo = memory.NewSessionRepository(cfg.App.SessionTTL)
	}

	// 3. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)
	c.closers = append(c.closers, func() { pubSub.Close() })

	var forwarder service.EventForwarder
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Events.Topic, forwarder, core.Logger)

	// 4. Services
	tableService := service.NewTableService(core.Adapter, core.Logger, publisherService)
	chatService := service.NewChatService(core.Adapter, core.Assistant, sessionRepo, publisherService, core.Logger)

	// 5. WebSocket Hub
	wsHub := websocket.NewHub(chatService, rdb, core.Logger)
	c.WebSocketHub = wsHub
	c.ChatHandler = websocket.NewChatHandler(wsHub, func(ctx *fiber.Ctx, id uuid.UUID) error {
		_, err := chatService.GetSession(ctx.UserContext(), id)
		return err
	})

	// 6. Controllers
	c.TableController = controller.NewTableController(tableService)
	c.ChatController = controller.NewChatController(chatService)

	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.Logger.Sync()
}
