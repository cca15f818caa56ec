package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"radiology-consult-be/internal/config"
	"radiology-consult-be/internal/controller"
	"radiology-consult-be/internal/handler"
	"radiology-consult-be/internal/pkg/logger"
	"radiology-consult-be/internal/repository/memory"
	"radiology-consult-be/internal/service"
	"radiology-consult-be/internal/websocket"
	"radiology-consult-be/pkg/deliberation"
	"radiology-consult-be/pkg/findings"
	"radiology-consult-be/pkg/llm"
	"radiology-consult-be/pkg/llm/factory"
)

type Container struct {
	// Controllers
	ConsultController controller.IConsultController

	// Background Services (Exposed for main.go to run)
	ProgressRelayService service.IProgressRelayService

	// WebSockets
	ProgressHandler *handler.ProgressHandler
	WebSocketHub    *websocket.Hub

	// Startup capability snapshot
	Capability service.Capability
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Collaborators
	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Llm.Provider,
		cfg.Llm.Model,
		providerBaseURL(cfg),
		cfg.Llm.OpenAIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}

	// Capability check runs once at startup; sessions use either the model
	// units or the offline units for their whole lifetime.
	llmAvailable := llmProvider != nil
	if llmAvailable && cfg.Llm.NetworkTestEnabled {
		if err := probeProvider(llmProvider); err != nil {
			log.Printf("[WARN] LLM provider unreachable, running offline: %v", err)
			llmAvailable = false
		}
	}
	if llmAvailable {
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Llm.Provider, cfg.Llm.Model)
	} else {
		log.Printf("[INFO] No LLM provider available, deliberation runs with offline units")
	}

	findingsAvailable := cfg.Findings.BaseURL != ""
	var findingsClient findings.Client
	if findingsAvailable {
		findingsClient = findings.NewHTTPClient(cfg.Findings.BaseURL)
		log.Printf("[INFO] Using captioning sidecar at %s", cfg.Findings.BaseURL)
	} else {
		findingsClient = findings.NewOfflineClient()
		log.Printf("[INFO] No captioning sidecar configured, using offline captions")
	}

	// 4. Deliberation units
	doctors := make([]deliberation.ReasoningUnit, 0, deliberation.PanelSize)
	var supervisor deliberation.ArbitrationUnit
	var rewriter deliberation.RewriteUnit
	if llmAvailable {
		for _, id := range deliberation.DoctorIDs {
			doctors = append(doctors, deliberation.NewModelDoctor(id, llmProvider, sysLogger))
		}
		supervisor = deliberation.NewModelSupervisor(llmProvider, sysLogger)
		rewriter = deliberation.NewModelRewriter(llmProvider, sysLogger)
	} else {
		for i, id := range deliberation.DoctorIDs {
			doctors = append(doctors, deliberation.NewOfflineDoctor(id, i))
		}
		supervisor = deliberation.OfflineSupervisor{}
		rewriter = deliberation.OfflineRewriter{}
	}

	// Initialize In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository(time.Duration(cfg.App.SessionTTLMinutes) * time.Minute)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/progress.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	// 5. Round controller and services
	progressPublisher := service.NewProgressPublisher(pubSub, sysLogger)
	delibCfg := deliberation.Config{
		MaxRounds:   cfg.Deliberation.MaxRounds,
		UnitTimeout: time.Duration(cfg.Deliberation.UnitTimeoutSeconds) * time.Second,
		MaxRetries:  cfg.Deliberation.UnitMaxRetries,
	}
	roundController, err := deliberation.NewController(doctors, supervisor, delibCfg, progressPublisher, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize round controller: %v", err)
	}

	capability := service.Capability{
		LlmAvailable:      llmAvailable,
		FindingsAvailable: findingsAvailable,
		Provider:          cfg.Llm.Provider,
		Model:             cfg.Llm.Model,
	}

	consultService := service.NewConsultService(
		sessionRepo,
		roundController,
		rewriter,
		findingsClient,
		capability,
		delibCfg,
		sysLogger,
	)
	progressRelayService := service.NewProgressRelayService(pubSub, wsHub, sysLogger)

	return &Container{
		ConsultController:    controller.NewConsultController(consultService),
		ProgressRelayService: progressRelayService,
		ProgressHandler:      handler.NewProgressHandler(sessionRepo, wsHub, sysLogger),
		WebSocketHub:         wsHub,
		Capability:           capability,
	}
}

func providerBaseURL(cfg *config.Config) string {
	if cfg.Llm.Provider == "openai" {
		return cfg.Llm.OpenAIBaseURL
	}
	return cfg.Llm.OllamaBaseURL
}

// probeProvider sends one tiny completion to verify the provider answers.
func probeProvider(provider llm.LLMProvider) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := provider.Generate(ctx, "Reply with the single word: ready", llm.WithMaxTokens(10)); err != nil {
		return fmt.Errorf("provider probe: %w", err)
	}
	return nil
}
