package consult

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medlane/prediag-backend/internal/entity"
	"go.uber.org/zap"
)

// TurnOutcome is the result of one consultation turn as seen by a
// transport (WebSocket handler or Telegram bot).
type TurnOutcome struct {
	// Ready marks the irrevocable transition to ready-for-diagnosis.
	Ready bool
	// Forced is set when readiness came from the question cap rather than
	// the generator.
	Forced bool
	// Question is the next follow-up question when Ready is false.
	Question *entity.StructuredQuestion
}

// Usecase orchestrates consultation sessions: creation, the follow-up turn
// loop and report generation. Turns within one session are strictly
// sequential; each session record is driven by a single owning connection.
type Usecase struct {
	repo         ConsultationRepository
	diag         DiagnosisService
	maxQuestions int
	logger       *zap.Logger
}

func NewUsecase(
	repo ConsultationRepository,
	diag DiagnosisService,
	maxQuestions int,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		repo:         repo,
		diag:         diag,
		maxQuestions: maxQuestions,
		logger:       logger,
	}
}

// CreateConsultation normalizes the submitted symptom text and stores a new
// session. Extraction failure fails the whole submission.
func (uc *Usecase) CreateConsultation(ctx context.Context, req *entity.SubmitSymptomsRequest) (*entity.Consultation, error) {
	symptoms, err := uc.diag.ExtractSymptoms(ctx, req.Symptoms)
	if err != nil {
		return nil, fmt.Errorf("extract symptoms: %w", err)
	}

	c := &entity.Consultation{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
		Symptoms: symptoms,
	}

	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create consultation: %w", err)
	}

	ctxzap.Info(ctx, "consultation created",
		zap.String("session_id", c.ID),
		zap.Strings("symptoms", symptoms),
	)

	return c, nil
}

// GetConsultation returns the full session record.
func (uc *Usecase) GetConsultation(ctx context.Context, id string) (*entity.Consultation, error) {
	c, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	return c, nil
}

// FirstQuestion generates the opening follow-up question for a fresh
// session. On reconnect with a question already pending, the pending
// question is re-sent instead of generating a duplicate.
func (uc *Usecase) FirstQuestion(ctx context.Context, id string) (*entity.StructuredQuestion, error) {
	c, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Ready {
		return nil, entity.ErrSessionReady
	}

	if c.QuestionCount > 0 && len(c.LastOptions) > 0 {
		return pendingQuestion(c), nil
	}

	step, err := uc.diag.NextStep(ctx, c)
	if err != nil {
		return nil, err
	}
	if step.Question == nil {
		// The opening call must produce a question; a premature ready
		// signal is a generation failure for this turn.
		return nil, fmt.Errorf("%w: no opening question", entity.ErrMalformedResponse)
	}

	c.QuestionCount = 1
	c.LastOptions = step.Question.Options()
	c.AppendBot(step.Question.Question)

	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update consultation: %w", err)
	}

	return step.Question, nil
}

// SubmitAnswer ingests one client reply and advances the turn loop.
//
// The reply is matched case-insensitively against the pending option keys;
// on a match the option text is recorded, otherwise the raw trimmed reply.
// The recorded answer survives even when the follow-up generation fails, so
// the client may retry the turn by sending another message.
func (uc *Usecase) SubmitAnswer(ctx context.Context, id, reply string) (*TurnOutcome, error) {
	c, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Ready {
		return nil, entity.ErrSessionReady
	}

	answer := strings.TrimSpace(reply)
	if text, ok := c.LastOptions[strings.ToUpper(answer)]; ok {
		answer = text
	}
	c.AppendUser(answer)

	step, stepErr := uc.diag.NextStep(ctx, c)
	if stepErr != nil {
		if err := uc.repo.Update(ctx, c); err != nil {
			return nil, fmt.Errorf("update consultation: %w", err)
		}
		return nil, stepErr
	}

	outcome := &TurnOutcome{}
	switch {
	case step.Ready:
		uc.markReady(c)
		outcome.Ready = true

	case c.QuestionCount >= uc.maxQuestions:
		// The cap is reached: force progression to diagnosis instead of
		// relaying the new question. The counter never passes the cap.
		uc.markReady(c)
		outcome.Ready = true
		outcome.Forced = true

	default:
		c.QuestionCount++
		c.LastOptions = step.Question.Options()
		c.AppendBot(step.Question.Question)
		outcome.Question = step.Question
	}

	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update consultation: %w", err)
	}

	ctxzap.Debug(ctx, "turn completed",
		zap.String("session_id", c.ID),
		zap.Int("question_count", c.QuestionCount),
		zap.Bool("ready", outcome.Ready),
		zap.Bool("forced", outcome.Forced),
	)

	return outcome, nil
}

// BuildReport maps candidate conditions and composes the final report text.
// Both steps propagate failures to the request boundary; there is no partial
// artifact.
func (uc *Usecase) BuildReport(ctx context.Context, id string) (string, error) {
	c, err := uc.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}

	mapped, err := uc.diag.MapConditions(ctx, c)
	if err != nil {
		return "", err
	}

	return uc.diag.ComposeReport(ctx, c, mapped)
}

func (uc *Usecase) markReady(c *entity.Consultation) {
	c.Ready = true
	c.LastOptions = nil
}

// pendingQuestion rebuilds the last offered question from the stored state.
func pendingQuestion(c *entity.Consultation) *entity.StructuredQuestion {
	q := &entity.StructuredQuestion{
		A: c.LastOptions["A"],
		B: c.LastOptions["B"],
		C: c.LastOptions["C"],
		D: c.LastOptions["D"],
	}
	for i := len(c.ChatHistory) - 1; i >= 0; i-- {
		if c.ChatHistory[i].Role == entity.RoleBot {
			q.Question = c.ChatHistory[i].Text
			break
		}
	}
	return q
}
