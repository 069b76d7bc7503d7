package ner

import (
	"context"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestMockConnectorRecognize(t *testing.T) {
	m := NewMockConnector(zap.NewNop())

	entities, err := m.Recognize(context.Background(), "I have a pounding HEADACHE and a mild fever since yesterday")
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if !reflect.DeepEqual(entities, []string{"headache", "fever"}) {
		t.Errorf("entities = %v, want [headache fever]", entities)
	}
}

func TestMockConnectorNoMatches(t *testing.T) {
	m := NewMockConnector(zap.NewNop())

	entities, err := m.Recognize(context.Background(), "I feel completely fine")
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if len(entities) != 0 {
		t.Errorf("entities = %v, want none", entities)
	}
}
