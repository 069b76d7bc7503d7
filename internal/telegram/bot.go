package telegram

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/medlane/prediag-backend/internal/config"
	"github.com/medlane/prediag-backend/internal/entity"
	"github.com/medlane/prediag-backend/internal/pkg/formatter"
	consultuc "github.com/medlane/prediag-backend/internal/usecase/consult"
	"go.uber.org/zap"
)

// ConsultUsecase is the consultation surface the bot drives.
type ConsultUsecase interface {
	CreateConsultation(ctx context.Context, req *entity.SubmitSymptomsRequest) (*entity.Consultation, error)
	FirstQuestion(ctx context.Context, id string) (*entity.StructuredQuestion, error)
	SubmitAnswer(ctx context.Context, id, reply string) (*consultuc.TurnOutcome, error)
	BuildReport(ctx context.Context, id string) (string, error)
}

// Bot is the Telegram front-end of the consultation flow. Each chat walks
// through an intake conversation (name, age, gender, symptoms) and then the
// follow-up loop with inline option buttons; the final report arrives as a
// PDF document.
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.TelegramConfig
	states   *stateStore
	usecase  ConsultUsecase
	pdf      formatter.Formatter
	logger   *zap.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewBot(
	cfg *config.TelegramConfig,
	usecase ConsultUsecase,
	pdf formatter.Formatter,
	logger *zap.Logger,
) (*Bot, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not configured")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	api.Debug = false

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	return &Bot{
		api:      api,
		cfg:      cfg,
		states:   newStateStore(cfg.StateTTL),
		usecase:  usecase,
		pdf:      pdf,
		logger:   logger,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins polling for updates.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	updates := b.api.GetUpdatesChan(u)

	go b.processUpdates(ctx, updates)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops the bot gracefully with timeout.
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	close(b.stopChan)
	b.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return fmt.Errorf("shutdown timeout exceeded")
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer b.wg.Done()
				defer b.recover(update)
				b.handleUpdate(ctx, update)
			}(update)
		}
	}
}

// recover keeps a panicking handler from taking the whole bot down.
func (b *Bot) recover(update tgbotapi.Update) {
	if r := recover(); r != nil {
		b.logger.Error("panic in update handler",
			zap.Any("panic", r),
			zap.ByteString("stack", debug.Stack()),
		)
		if chatID := chatIDOf(update); chatID != 0 {
			b.send(tgbotapi.NewMessage(chatID, "Something went wrong, please try again."))
		}
	}
}

func chatIDOf(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID
	default:
		return 0
	}
}
