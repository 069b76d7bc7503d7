package consult

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medlane/prediag-backend/internal/diagnosis"
	"github.com/medlane/prediag-backend/internal/entity"
	"github.com/medlane/prediag-backend/internal/repository"
	"go.uber.org/zap"
)

// fakeDiagnosis scripts the diagnosis service per call.
type fakeDiagnosis struct {
	extractTerms []string
	extractErr   error

	steps     []*diagnosis.StepResult
	stepErr   error
	stepCalls int

	mapped     string
	mapErr     error
	report     string
	composeErr error
}

func (f *fakeDiagnosis) ExtractSymptoms(ctx context.Context, text string) ([]string, error) {
	return f.extractTerms, f.extractErr
}

func (f *fakeDiagnosis) NextStep(ctx context.Context, c *entity.Consultation) (*diagnosis.StepResult, error) {
	if f.stepErr != nil {
		return nil, f.stepErr
	}
	step := f.steps[f.stepCalls%len(f.steps)]
	f.stepCalls++
	return step, nil
}

func (f *fakeDiagnosis) MapConditions(ctx context.Context, c *entity.Consultation) (string, error) {
	return f.mapped, f.mapErr
}

func (f *fakeDiagnosis) ComposeReport(ctx context.Context, c *entity.Consultation, mappedDiseases string) (string, error) {
	return f.report, f.composeErr
}

func questionStep(text string) *diagnosis.StepResult {
	return &diagnosis.StepResult{
		Question: &entity.StructuredQuestion{
			Question: text,
			A:        "Yes",
			B:        "No",
			C:        "Sometimes",
			D:        "Not sure",
		},
	}
}

func readyStep() *diagnosis.StepResult {
	return &diagnosis.StepResult{Ready: true}
}

func newTestUsecase(t *testing.T, diag *fakeDiagnosis, maxQuestions int) *Usecase {
	t.Helper()
	repo := repository.NewConsultationMemory(time.Hour, time.Hour)
	return NewUsecase(repo, diag, maxQuestions, zap.NewNop())
}

func createSession(t *testing.T, uc *Usecase) string {
	t.Helper()
	c, err := uc.CreateConsultation(context.Background(), &entity.SubmitSymptomsRequest{
		Name:     "Jane",
		Age:      34,
		Gender:   "female",
		Symptoms: "fever and headache",
	})
	if err != nil {
		t.Fatalf("CreateConsultation returned error: %v", err)
	}
	return c.ID
}

func TestCreateConsultationStoresNormalizedSymptoms(t *testing.T) {
	diag := &fakeDiagnosis{extractTerms: []string{"fever", "headache"}}
	uc := newTestUsecase(t, diag, 10)

	id := createSession(t, uc)

	c, err := uc.GetConsultation(context.Background(), id)
	if err != nil {
		t.Fatalf("GetConsultation returned error: %v", err)
	}
	if len(c.Symptoms) != 2 || c.Symptoms[0] != "fever" || c.Symptoms[1] != "headache" {
		t.Errorf("unexpected symptoms: %v", c.Symptoms)
	}
	if c.QuestionCount != 0 || c.Ready {
		t.Errorf("fresh session should be empty: count=%d ready=%v", c.QuestionCount, c.Ready)
	}
}

func TestCreateConsultationExtractionFailure(t *testing.T) {
	diag := &fakeDiagnosis{extractErr: errors.New("recognizer down")}
	uc := newTestUsecase(t, diag, 10)

	_, err := uc.CreateConsultation(context.Background(), &entity.SubmitSymptomsRequest{
		Name: "Jane", Age: 34, Gender: "female", Symptoms: "fever",
	})
	if err == nil {
		t.Fatal("expected error when extraction fails")
	}
}

func TestFirstQuestionOpensTheLoop(t *testing.T) {
	diag := &fakeDiagnosis{
		extractTerms: []string{"fever"},
		steps:        []*diagnosis.StepResult{questionStep("How long?")},
	}
	uc := newTestUsecase(t, diag, 10)
	id := createSession(t, uc)

	q, err := uc.FirstQuestion(context.Background(), id)
	if err != nil {
		t.Fatalf("FirstQuestion returned error: %v", err)
	}
	if q.Question != "How long?" {
		t.Errorf("unexpected question: %q", q.Question)
	}

	c, _ := uc.GetConsultation(context.Background(), id)
	if c.QuestionCount != 1 {
		t.Errorf("QuestionCount = %d, want 1", c.QuestionCount)
	}
	if len(c.ChatHistory) != 1 || c.ChatHistory[0].Role != entity.RoleBot {
		t.Errorf("unexpected history: %+v", c.ChatHistory)
	}
	if len(c.LastOptions) != 4 {
		t.Errorf("LastOptions = %v, want 4 entries", c.LastOptions)
	}
}

func TestFirstQuestionResendsPendingOnReconnect(t *testing.T) {
	diag := &fakeDiagnosis{
		extractTerms: []string{"fever"},
		steps:        []*diagnosis.StepResult{questionStep("How long?")},
	}
	uc := newTestUsecase(t, diag, 10)
	id := createSession(t, uc)

	if _, err := uc.FirstQuestion(context.Background(), id); err != nil {
		t.Fatalf("FirstQuestion returned error: %v", err)
	}

	q, err := uc.FirstQuestion(context.Background(), id)
	if err != nil {
		t.Fatalf("FirstQuestion on reconnect returned error: %v", err)
	}
	if q.Question != "How long?" {
		t.Errorf("unexpected resent question: %q", q.Question)
	}
	if diag.stepCalls != 1 {
		t.Errorf("stepCalls = %d, reconnect must not regenerate the question", diag.stepCalls)
	}

	c, _ := uc.GetConsultation(context.Background(), id)
	if c.QuestionCount != 1 || len(c.ChatHistory) != 1 {
		t.Errorf("reconnect mutated the session: count=%d history=%d", c.QuestionCount, len(c.ChatHistory))
	}
}

func TestFirstQuestionRejectsReadySession(t *testing.T) {
	diag := &fakeDiagnosis{
		extractTerms: []string{"fever"},
		steps:        []*diagnosis.StepResult{questionStep("How long?"), readyStep()},
	}
	uc := newTestUsecase(t, diag, 10)
	id := createSession(t, uc)

	if _, err := uc.FirstQuestion(context.Background(), id); err != nil {
		t.Fatalf("FirstQuestion returned error: %v", err)
	}
	if _, err := uc.SubmitAnswer(context.Background(), id, "A"); err != nil {
		t.Fatalf("SubmitAnswer returned error: %v", err)
	}

	if _, err := uc.FirstQuestion(context.Background(), id); !errors.Is(err, entity.ErrSessionReady) {
		t.Errorf("expected ErrSessionReady, got %v", err)
	}
}

func TestFirstQuestionPrematureReadyIsFailure(t *testing.T) {
	diag := &fakeDiagnosis{
		extractTerms: []string{"fever"},
		steps:        []*diagnosis.StepResult{readyStep()},
	}
	uc := newTestUsecase(t, diag, 10)
	id := createSession(t, uc)

	if _, err := uc.FirstQuestion(context.Background(), id); !errors.Is(err, entity.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}

	c, _ := uc.GetConsultation(context.Background(), id)
	if c.QuestionCount != 0 || c.Ready {
		t.Errorf("failed opening must not advance the session: count=%d ready=%v", c.QuestionCount, c.Ready)
	}
}

func TestSubmitAnswerSubstitutesOptionKey(t *testing.T) {
	diag := &fakeDiagnosis{
		extractTerms: []string{"fever"},
		steps:        []*diagnosis.StepResult{questionStep("How long?")},
	}
	uc := newTestUsecase(t, diag, 10)
	id := createSession(t, uc)
	if _, err := uc.FirstQuestion(context.Background(), id); err != nil {
		t.Fatal(err)
	}

	for reply, want := range map[string]string{
		" b ":       "No",
		"c":         "Sometimes",
		"D":         "Not sure",
		"free text": "free text",
	} {
		if _, err := uc.SubmitAnswer(context.Background(), id, reply); err != nil {
			t.Fatalf("SubmitAnswer(%q) returned error: %v", reply, err)
		}
		c, _ := uc.GetConsultation(context.Background(), id)
		last := c.ChatHistory[len(c.ChatHistory)-1]
		// A new bot question follows each answer; the user turn is one back.
		userTurn := c.ChatHistory[len(c.ChatHistory)-2]
		if last.Role != entity.RoleBot {
			t.Fatalf("expected trailing bot turn, got %+v", last)
		}
		if userTurn.Text != want {
			t.Errorf("SubmitAnswer(%q) recorded %q, want %q", reply, userTurn.Text, want)
		}
	}
}

func TestSubmitAnswerReadySignal(t *testing.T) {
	diag := &fakeDiagnosis{
		extractTerms: []string{"fever"},
		steps:        []*diagnosis.StepResult{questionStep("How long?"), readyStep()},
	}
	uc := newTestUsecase(t, diag, 10)
	id := createSession(t, uc)
	if _, err := uc.FirstQuestion(context.Background(), id); err != nil {
		t.Fatal(err)
	}

	outcome, err := uc.SubmitAnswer(context.Background(), id, "A")
	if err != nil {
		t.Fatalf("SubmitAnswer returned error: %v", err)
	}
	if !outcome.Ready || outcome.Forced {
		t.Errorf("outcome = %+v, want ready and not forced", outcome)
	}

	c, _ := uc.GetConsultation(context.Background(), id)
	if !c.Ready {
		t.Error("session not marked ready")
	}
	if c.LastOptions != nil {
		t.Errorf("LastOptions = %v, want cleared", c.LastOptions)
	}

	if _, err := uc.SubmitAnswer(context.Background(), id, "A"); !errors.Is(err, entity.ErrSessionReady) {
		t.Errorf("answer after ready: expected ErrSessionReady, got %v", err)
	}
}

func TestSubmitAnswerForcesReadyAtCap(t *testing.T) {
	const maxQuestions = 3
	diag := &fakeDiagnosis{
		extractTerms: []string{"fever"},
		steps:        []*diagnosis.StepResult{questionStep("Next?")},
	}
	uc := newTestUsecase(t, diag, maxQuestions)
	id := createSession(t, uc)
	if _, err := uc.FirstQuestion(context.Background(), id); err != nil {
		t.Fatal(err)
	}

	var outcome *TurnOutcome
	var err error
	for i := 0; i < maxQuestions; i++ {
		outcome, err = uc.SubmitAnswer(context.Background(), id, "A")
		if err != nil {
			t.Fatalf("SubmitAnswer %d returned error: %v", i, err)
		}
		c, _ := uc.GetConsultation(context.Background(), id)
		if c.QuestionCount > maxQuestions {
			t.Fatalf("QuestionCount %d passed the cap %d", c.QuestionCount, maxQuestions)
		}
	}

	if !outcome.Ready || !outcome.Forced {
		t.Errorf("final outcome = %+v, want forced ready", outcome)
	}
}

func TestSubmitAnswerPersistsAnswerOnGenerationFailure(t *testing.T) {
	diag := &fakeDiagnosis{
		extractTerms: []string{"fever"},
		steps:        []*diagnosis.StepResult{questionStep("How long?")},
	}
	uc := newTestUsecase(t, diag, 10)
	id := createSession(t, uc)
	if _, err := uc.FirstQuestion(context.Background(), id); err != nil {
		t.Fatal(err)
	}

	diag.stepErr = entity.ErrGeneratorUnavailable
	if _, err := uc.SubmitAnswer(context.Background(), id, "A"); !errors.Is(err, entity.ErrGeneratorUnavailable) {
		t.Fatalf("expected ErrGeneratorUnavailable, got %v", err)
	}

	c, _ := uc.GetConsultation(context.Background(), id)
	last := c.ChatHistory[len(c.ChatHistory)-1]
	if last.Role != entity.RoleUser || last.Text != "Yes" {
		t.Errorf("answer not persisted on failure: %+v", last)
	}
	if c.QuestionCount != 1 {
		t.Errorf("QuestionCount = %d, failed turn must not advance it", c.QuestionCount)
	}
}

func TestSubmitAnswerUnknownSession(t *testing.T) {
	diag := &fakeDiagnosis{steps: []*diagnosis.StepResult{readyStep()}}
	uc := newTestUsecase(t, diag, 10)

	if _, err := uc.SubmitAnswer(context.Background(), "missing", "A"); !errors.Is(err, entity.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestBuildReport(t *testing.T) {
	diag := &fakeDiagnosis{
		extractTerms: []string{"fever"},
		mapped:       "Flu: Moderate",
		report:       "Age: 34 Years\nRecommendation: rest",
	}
	uc := newTestUsecase(t, diag, 10)
	id := createSession(t, uc)

	report, err := uc.BuildReport(context.Background(), id)
	if err != nil {
		t.Fatalf("BuildReport returned error: %v", err)
	}
	if report != "Age: 34 Years\nRecommendation: rest" {
		t.Errorf("unexpected report: %q", report)
	}
}

func TestBuildReportMapFailurePropagates(t *testing.T) {
	diag := &fakeDiagnosis{
		extractTerms: []string{"fever"},
		mapErr:       entity.ErrGeneratorUnavailable,
	}
	uc := newTestUsecase(t, diag, 10)
	id := createSession(t, uc)

	if _, err := uc.BuildReport(context.Background(), id); !errors.Is(err, entity.ErrGeneratorUnavailable) {
		t.Errorf("expected ErrGeneratorUnavailable, got %v", err)
	}
}
