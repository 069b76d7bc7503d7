package llm

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockGenerator is a deterministic generation backend for local runs and
// tests. It answers extraction prompts with a fixed term list, asks two
// follow-up questions, then signals readiness; mapping and report prompts
// get canned text.
type MockGenerator struct {
	logger    *zap.Logger
	questions int32
}

func NewMockGenerator(logger *zap.Logger) *MockGenerator {
	return &MockGenerator{logger: logger}
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctxzap.Debug(ctx, "[MOCK] generating", zap.Int("prompt_length", len(prompt)))

	switch {
	case strings.Contains(prompt, "Extract only medical symptoms"):
		return `["headache", "fever"]`, nil

	case strings.Contains(prompt, "follow-up question"):
		if atomic.AddInt32(&m.questions, 1) > 2 {
			return "Ready for diagnosis", nil
		}
		return `{"Question":"How long have you had these symptoms?","A":"Less than a day","B":"1-3 days","C":"About a week","D":"More than a week"}`, nil

	case strings.Contains(prompt, "top 3 most likely medical conditions"):
		return "- Tension headache: matches reported headache without red flags. Urgency: Low\n" +
			"- Viral infection: fever with headache is typical. Urgency: Moderate\n" +
			"- Sinusitis: possible given symptom pair. Urgency: Low", nil

	default:
		return "Recommendation: rest, hydrate and monitor your temperature.\n" +
			"If fever persists beyond 72 hours, consult a physician.\n" +
			"Urgency: Moderate", nil
	}
}
