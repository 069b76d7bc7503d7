package diagnosis

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medlane/prediag-backend/internal/entity"
	"go.uber.org/zap"
)

// MapConditions asks the generator to rank the top candidate conditions
// with reasoning and urgency. The output is free text and passed through
// unparsed; any failure aborts report generation and propagates.
func (s *Service) MapConditions(ctx context.Context, c *entity.Consultation) (string, error) {
	ctxzap.Info(ctx, "mapping candidate conditions",
		zap.Int("symptom_count", len(c.Symptoms)),
		zap.Int("history_len", len(c.ChatHistory)),
	)

	mapped, err := s.generate(ctx, mappingPrompt(c))
	if err != nil {
		return "", fmt.Errorf("map conditions: %w", err)
	}
	return mapped, nil
}
