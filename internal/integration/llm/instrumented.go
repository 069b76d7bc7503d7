package llm

import (
	"context"
	"errors"
	"time"

	"github.com/medlane/prediag-backend/internal/entity"
	"github.com/medlane/prediag-backend/internal/observability"
)

// InstrumentedGenerator decorates a Generator with latency and failure
// metrics.
type InstrumentedGenerator struct {
	next    Generator
	metrics *observability.Metrics
}

func NewInstrumentedGenerator(next Generator, metrics *observability.Metrics) *InstrumentedGenerator {
	return &InstrumentedGenerator{next: next, metrics: metrics}
}

func (g *InstrumentedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := g.next.Generate(ctx, prompt)
	g.metrics.ObserveGenerateLatency(time.Since(start))

	if err != nil {
		g.metrics.GeneratorFailures.WithLabelValues(failureKind(err)).Inc()
	}
	return text, err
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, entity.ErrGeneratorUnavailable):
		return "unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "transport"
	}
}
