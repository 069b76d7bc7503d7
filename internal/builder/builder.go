package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/medlane/prediag-backend/internal/api"
	consultapi "github.com/medlane/prediag-backend/internal/api/consult"
	"github.com/medlane/prediag-backend/internal/config"
	"github.com/medlane/prediag-backend/internal/diagnosis"
	"github.com/medlane/prediag-backend/internal/integration/llm"
	"github.com/medlane/prediag-backend/internal/integration/ner"
	"github.com/medlane/prediag-backend/internal/observability"
	"github.com/medlane/prediag-backend/internal/pkg/formatter"
	"github.com/medlane/prediag-backend/internal/pkg/validator"
	"github.com/medlane/prediag-backend/internal/repository"
	"github.com/medlane/prediag-backend/internal/telegram"
	consultuc "github.com/medlane/prediag-backend/internal/usecase/consult"
	"go.uber.org/zap"
)

const metricsNamespace = "prediag"

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	metrics := observability.NewMetrics(metricsNamespace, nil)

	consultUC := buildConsultUsecase(cfg, metrics, logger)

	consultHandler := consultapi.NewHandler(
		consultUC,
		validator.New(),
		formatter.NewFactory(),
		metrics,
	)
	logger.Info("API handlers initialized")

	router := api.SetupRouter(consultHandler, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// BuildTelegramBot creates and initializes the Telegram bot front-end.
func BuildTelegramBot() (*telegram.Bot, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
	)

	metrics := observability.NewMetrics(metricsNamespace, nil)

	consultUC := buildConsultUsecase(cfg, metrics, logger)

	bot, err := telegram.NewBot(&cfg.TelegramCfg, consultUC, formatter.NewPDFFormatter(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize telegram bot: %w", err)
	}

	logger.Info("Telegram bot built successfully",
		zap.String("environment", cfg.Environment),
	)

	return bot, logger, nil
}

// buildConsultUsecase wires the store, the external collaborators (or their
// mocks) and the diagnosis service into the consultation use case.
func buildConsultUsecase(cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) *consultuc.Usecase {
	repo := repository.NewConsultationMemory(cfg.ConsultCfg.SessionTTL, cfg.ConsultCfg.SessionJanitor)
	logger.Info("In-memory consultation store initialized",
		zap.Duration("session_ttl", cfg.ConsultCfg.SessionTTL),
	)

	var generator llm.Generator
	var recognizer diagnosis.Recognizer

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		generator = llm.NewMockGenerator(logger)
		recognizer = ner.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		generator = llm.NewGenerator(cfg.LLMCfg, logger)
		recognizer = ner.NewConnector(cfg.NERConnectorCfg, logger)
	}

	generator = llm.NewInstrumentedGenerator(generator, metrics)

	diagService := diagnosis.NewService(generator, recognizer, cfg.LLMCfg.CallTimeout)

	return consultuc.NewUsecase(repo, diagService, cfg.ConsultCfg.MaxQuestions, logger)
}
