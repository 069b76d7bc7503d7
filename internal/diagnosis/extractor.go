package diagnosis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ExtractSymptoms normalizes patient-reported symptom text into a sorted,
// deduplicated set of terms. It unions two sources: the external entity
// recognizer (whose failure is fatal) and an LLM term list (whose failure
// only degrades the result).
func (s *Service) ExtractSymptoms(ctx context.Context, text string) ([]string, error) {
	spans, err := s.recognizer.Recognize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("recognize medical entities: %w", err)
	}

	set := make(map[string]struct{}, len(spans))
	for _, span := range spans {
		span = strings.ToLower(strings.TrimSpace(span))
		if span != "" {
			set[span] = struct{}{}
		}
	}

	for _, term := range s.llmTerms(ctx, text) {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			set[term] = struct{}{}
		}
	}

	terms := make([]string, 0, len(set))
	for term := range set {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms, nil
}

// llmTerms asks the generator for a symptom list. Any failure, transport or
// format, degrades to an empty contribution.
func (s *Service) llmTerms(ctx context.Context, text string) []string {
	raw, err := s.generate(ctx, extractionPrompt(text))
	if err != nil {
		ctxzap.Warn(ctx, "LLM term extraction skipped", zap.Error(err))
		return nil
	}

	terms, ok := ParseTermList(raw)
	if !ok {
		ctxzap.Warn(ctx, "LLM term list rejected", zap.String("raw", raw))
		return nil
	}
	return terms
}

// ParseTermList parses a generator response as a strict JSON array of
// strings. Model output is untrusted; anything that does not decode as a
// plain string array is rejected rather than interpreted.
func ParseTermList(raw string) ([]string, bool) {
	cleaned := stripCodeFences(strings.TrimSpace(raw))

	if !strings.HasPrefix(cleaned, "[") || !strings.HasSuffix(cleaned, "]") {
		return nil, false
	}

	var terms []string
	if err := json.Unmarshal([]byte(cleaned), &terms); err != nil {
		return nil, false
	}
	return terms, true
}
