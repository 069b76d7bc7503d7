package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/medlane/prediag-backend/internal/entity"
	"go.uber.org/zap"
)

const (
	welcomeText = "Hi! I can run a short pre-diagnosis consultation and send you " +
		"a report. This is not medical advice; see a doctor for anything serious.\n\n" +
		"What is your name?"
	cancelText = "Consultation cancelled. Send /start to begin a new one."
)

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		b.handleCommand(chatID, msg.Command())
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	st := b.states.get(chatID)
	switch st.Stage {
	case stageIdle, stageDone:
		b.sendText(chatID, "Send /start to begin a consultation.")
	case stageAskName:
		st.Name = text
		st.Stage = stageAskAge
		b.states.put(chatID, st)
		b.sendText(chatID, fmt.Sprintf("Nice to meet you, %s. How old are you?", st.Name))
	case stageAskAge:
		age, err := strconv.Atoi(text)
		if err != nil || age < 0 || age > 120 {
			b.sendText(chatID, "Please send your age as a number between 0 and 120.")
			return
		}
		st.Age = age
		st.Stage = stageAskGender
		b.states.put(chatID, st)
		reply := tgbotapi.NewMessage(chatID, "What is your gender?")
		reply.ReplyMarkup = genderKeyboard()
		b.send(reply)
	case stageAskGender:
		b.sendText(chatID, "Please pick a gender using the buttons above.")
	case stageAskSymptoms:
		b.startConsultation(ctx, chatID, st, text)
	case stageConsulting:
		b.submitAnswer(ctx, chatID, st, text)
	}
}

func (b *Bot) handleCommand(chatID int64, command string) {
	switch command {
	case "start":
		b.states.put(chatID, &chatState{Stage: stageAskName})
		b.sendText(chatID, welcomeText)
	case "cancel":
		b.states.reset(chatID)
		b.sendText(chatID, cancelText)
	default:
		b.sendText(chatID, "Unknown command. Use /start or /cancel.")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Acknowledge first so the button stops spinning.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback query", zap.Error(err))
	}

	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	st := b.states.get(chatID)

	switch {
	case strings.HasPrefix(cb.Data, callbackGenderPrefix):
		if st.Stage != stageAskGender {
			return
		}
		st.Gender = strings.TrimPrefix(cb.Data, callbackGenderPrefix)
		st.Stage = stageAskSymptoms
		b.states.put(chatID, st)
		b.sendText(chatID, "Got it. Now describe your symptoms in your own words.")
	case strings.HasPrefix(cb.Data, callbackOptionPrefix):
		if st.Stage != stageConsulting {
			return
		}
		b.submitAnswer(ctx, chatID, st, strings.TrimPrefix(cb.Data, callbackOptionPrefix))
	}
}

func (b *Bot) startConsultation(ctx context.Context, chatID int64, st *chatState, symptoms string) {
	consultation, err := b.usecase.CreateConsultation(ctx, &entity.SubmitSymptomsRequest{
		Name:     st.Name,
		Age:      st.Age,
		Gender:   st.Gender,
		Symptoms: symptoms,
	})
	if err != nil {
		b.logger.Error("failed to create consultation",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		b.sendText(chatID, "Could not start the consultation, please try again later.")
		return
	}

	st.SessionID = consultation.ID
	st.Stage = stageConsulting
	b.states.put(chatID, st)

	question, err := b.usecase.FirstQuestion(ctx, consultation.ID)
	if err != nil {
		b.logger.Error("failed to generate first question",
			zap.String("session_id", consultation.ID),
			zap.Error(err),
		)
		b.states.reset(chatID)
		b.sendText(chatID, "Unable to generate the first question, please /start again later.")
		return
	}

	b.sendQuestion(chatID, question)
}

func (b *Bot) submitAnswer(ctx context.Context, chatID int64, st *chatState, reply string) {
	outcome, err := b.usecase.SubmitAnswer(ctx, st.SessionID, reply)
	if err != nil {
		if errors.Is(err, entity.ErrSessionNotFound) {
			b.states.reset(chatID)
			b.sendText(chatID, "Your session expired. Send /start to begin again.")
			return
		}
		b.logger.Error("failed to process answer",
			zap.String("session_id", st.SessionID),
			zap.Error(err),
		)
		b.sendText(chatID, "Could not process that answer, please try again.")
		return
	}

	if !outcome.Ready {
		b.sendQuestion(chatID, outcome.Question)
		return
	}

	if outcome.Forced {
		b.sendText(chatID, "Reached the question limit, moving on to the diagnosis.")
	}
	b.sendText(chatID, "Preparing your report, this can take a moment...")
	b.sendReport(ctx, chatID, st)
}

func (b *Bot) sendQuestion(chatID int64, q *entity.StructuredQuestion) {
	msg := tgbotapi.NewMessage(chatID, q.Question)
	msg.ReplyMarkup = optionsKeyboard(q)
	b.send(msg)
}

func (b *Bot) sendReport(ctx context.Context, chatID int64, st *chatState) {
	report, err := b.usecase.BuildReport(ctx, st.SessionID)
	if err != nil {
		b.logger.Error("failed to build report",
			zap.String("session_id", st.SessionID),
			zap.Error(err),
		)
		b.sendText(chatID, "Could not prepare the report, please try again later.")
		return
	}

	rendered, err := b.pdf.Format(report)
	if err != nil {
		b.logger.Error("failed to render report",
			zap.String("session_id", st.SessionID),
			zap.Error(err),
		)
		// Fall back to plain text so the user still gets the content.
		b.sendText(chatID, report)
	} else {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  "medical_report" + b.pdf.FileExtension(),
			Bytes: rendered,
		})
		doc.Caption = "Your consultation report."
		b.send(doc)
	}

	st.Stage = stageDone
	b.states.put(chatID, st)
	b.sendText(chatID, "Take care! Send /start whenever you need another consultation.")
}
