package consult

import (
	"context"

	"github.com/medlane/prediag-backend/internal/diagnosis"
	"github.com/medlane/prediag-backend/internal/entity"
)

// DiagnosisService is the LLM-backed part of the consultation flow.
type DiagnosisService interface {
	ExtractSymptoms(ctx context.Context, text string) ([]string, error)
	NextStep(ctx context.Context, c *entity.Consultation) (*diagnosis.StepResult, error)
	MapConditions(ctx context.Context, c *entity.Consultation) (string, error)
	ComposeReport(ctx context.Context, c *entity.Consultation, mappedDiseases string) (string, error)
}

// ConsultationRepository is the keyed session store.
type ConsultationRepository interface {
	Create(ctx context.Context, c *entity.Consultation) error
	Get(ctx context.Context, id string) (*entity.Consultation, error)
	Update(ctx context.Context, c *entity.Consultation) error
}
