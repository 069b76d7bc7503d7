package consult

import (
	"context"

	"github.com/medlane/prediag-backend/internal/entity"
	uc "github.com/medlane/prediag-backend/internal/usecase/consult"
)

// ConsultUsecase is the orchestration surface the transport layer drives.
type ConsultUsecase interface {
	CreateConsultation(ctx context.Context, req *entity.SubmitSymptomsRequest) (*entity.Consultation, error)
	GetConsultation(ctx context.Context, id string) (*entity.Consultation, error)
	FirstQuestion(ctx context.Context, id string) (*entity.StructuredQuestion, error)
	SubmitAnswer(ctx context.Context, id, reply string) (*uc.TurnOutcome, error)
	BuildReport(ctx context.Context, id string) (string, error)
}
