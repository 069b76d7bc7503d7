package diagnosis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medlane/prediag-backend/internal/entity"
	"go.uber.org/zap"
)

// ReadySentinel is the exact literal the model emits when it has gathered
// enough information to proceed to diagnosis.
const ReadySentinel = "Ready for diagnosis"

// StepResult is the outcome of one follow-up generation call: either the
// ready signal or one structured question. Failures are returned as errors.
type StepResult struct {
	Ready    bool
	Question *entity.StructuredQuestion
}

// NextStep asks the generator for the next follow-up question, or the ready
// signal. A single malformed or failed response is terminal for this call;
// there is no retry here, the caller decides whether to try the turn again.
func (s *Service) NextStep(ctx context.Context, c *entity.Consultation) (*StepResult, error) {
	raw, err := s.generate(ctx, followupPrompt(c))
	if err != nil {
		return nil, fmt.Errorf("generate follow-up: %w", err)
	}

	result, err := ParseStepResponse(raw)
	if err != nil {
		ctxzap.Warn(ctx, "unparseable follow-up response", zap.String("raw", raw))
		return nil, err
	}
	return result, nil
}

// ParseStepResponse classifies a raw generator response.
//
// Handling order: trim; exact sentinel match short-circuits everything else;
// optional markdown code fences are stripped; text shaped like a JSON object
// is parsed strictly; anything else is a format failure. Leading prose before
// the opening brace is a failure, never trimmed away.
func ParseStepResponse(raw string) (*StepResult, error) {
	trimmed := strings.TrimSpace(raw)

	if trimmed == ReadySentinel {
		return &StepResult{Ready: true}, nil
	}

	cleaned := stripCodeFences(trimmed)

	if !strings.HasPrefix(cleaned, "{") || !strings.HasSuffix(cleaned, "}") {
		return nil, fmt.Errorf("%w: neither sentinel nor JSON object", entity.ErrMalformedResponse)
	}

	var question entity.StructuredQuestion
	if err := json.Unmarshal([]byte(cleaned), &question); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrMalformedResponse, err)
	}
	if question.Question == "" {
		return nil, fmt.Errorf("%w: missing Question key", entity.ErrMalformedResponse)
	}

	return &StepResult{Question: &question}, nil
}

// stripCodeFences removes an optional leading ```json (or bare ```) tag and
// a trailing ``` marker.
func stripCodeFences(s string) string {
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
