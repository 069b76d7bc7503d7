package diagnosis

import (
	"context"
	"time"
)

// Generator produces free text for a prompt. Implementations live in
// internal/integration/llm; a disabled implementation fails every call
// without network I/O when no credential is configured.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Recognizer tags medical entity spans in free text. Implemented by the
// external NER service connector.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]string, error)
}

// Service bundles the LLM-backed consultation steps: symptom extraction,
// follow-up generation, disease mapping and report composition.
type Service struct {
	generator   Generator
	recognizer  Recognizer
	callTimeout time.Duration
}

func NewService(generator Generator, recognizer Recognizer, callTimeout time.Duration) *Service {
	return &Service{
		generator:   generator,
		recognizer:  recognizer,
		callTimeout: callTimeout,
	}
}

// generate runs one generator call under the configured deadline. An
// unresponsive upstream surfaces as a context error instead of stalling
// the session.
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}
	return s.generator.Generate(ctx, prompt)
}
