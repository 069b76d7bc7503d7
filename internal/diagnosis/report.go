package diagnosis

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medlane/prediag-backend/internal/entity"
	"go.uber.org/zap"
)

// ComposeReport asks the generator for the full consultation report, using
// the mapped conditions and a worked sample to steer formatting. The output
// is opaque free text; failures propagate to the request boundary.
func (s *Service) ComposeReport(ctx context.Context, c *entity.Consultation, mappedDiseases string) (string, error) {
	report, err := s.generate(ctx, reportPrompt(c, mappedDiseases))
	if err != nil {
		return "", fmt.Errorf("compose report: %w", err)
	}

	ctxzap.Info(ctx, "report composed", zap.Int("result_length", len(report)))
	return report, nil
}
