package ner

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// knownTerms is a tiny vocabulary for local runs without the NER service.
var knownTerms = []string{
	"headache", "fever", "cough", "sore throat", "nausea", "fatigue",
	"dizziness", "chills", "rash", "chest pain", "shortness of breath",
}

// MockConnector tags entities by substring match against a fixed
// vocabulary.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (m *MockConnector) Recognize(ctx context.Context, text string) ([]string, error) {
	lowered := strings.ToLower(text)

	var entities []string
	for _, term := range knownTerms {
		if strings.Contains(lowered, term) {
			entities = append(entities, term)
		}
	}

	ctxzap.Info(ctx, "[MOCK] entities recognized", zap.Int("entity_count", len(entities)))
	return entities, nil
}
