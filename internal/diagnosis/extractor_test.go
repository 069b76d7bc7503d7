package diagnosis

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestParseTermList(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  []string
		valid bool
	}{
		{"bare array", `["fever", "headache"]`, []string{"fever", "headache"}, true},
		{"fenced array", "```json\n[\"fever\", \"headache\"]\n```", []string{"fever", "headache"}, true},
		{"empty array", `[]`, []string{}, true},
		{"leading prose", `Here you go: ["fever"]`, nil, false},
		{"object instead of array", `{"terms": ["fever"]}`, nil, false},
		{"mixed types", `["fever", 42]`, nil, false},
		{"plain prose", "fever and headache", nil, false},
		{"empty", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTermList(tt.raw)
			if ok != tt.valid {
				t.Fatalf("ParseTermList(%q) ok = %v, want %v", tt.raw, ok, tt.valid)
			}
			if tt.valid && len(tt.want) > 0 && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTermList(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExtractSymptomsUnionsAndNormalizes(t *testing.T) {
	rec := &stubRecognizer{spans: []string{" Fever ", "HEADACHE", "fever", ""}}
	gen := &stubGenerator{response: `["headache", "Nausea"]`}
	svc := NewService(gen, rec, 0)

	terms, err := svc.ExtractSymptoms(context.Background(), "feeling awful")
	if err != nil {
		t.Fatalf("ExtractSymptoms returned error: %v", err)
	}

	want := []string{"fever", "headache", "nausea"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("ExtractSymptoms = %v, want %v", terms, want)
	}
}

func TestExtractSymptomsRecognizerFailureIsFatal(t *testing.T) {
	rec := &stubRecognizer{err: errors.New("service unavailable")}
	gen := &stubGenerator{response: `["fever"]`}
	svc := NewService(gen, rec, 0)

	if _, err := svc.ExtractSymptoms(context.Background(), "text"); err == nil {
		t.Fatal("expected error when the recognizer fails")
	}
}

func TestExtractSymptomsDegradesOnGeneratorFailure(t *testing.T) {
	rec := &stubRecognizer{spans: []string{"fever"}}
	gen := &stubGenerator{err: errors.New("upstream down")}
	svc := NewService(gen, rec, 0)

	terms, err := svc.ExtractSymptoms(context.Background(), "text")
	if err != nil {
		t.Fatalf("ExtractSymptoms returned error: %v", err)
	}
	if !reflect.DeepEqual(terms, []string{"fever"}) {
		t.Errorf("ExtractSymptoms = %v, want just the recognizer terms", terms)
	}
}

func TestExtractSymptomsDegradesOnRejectedTermList(t *testing.T) {
	rec := &stubRecognizer{spans: []string{"fever"}}
	gen := &stubGenerator{response: "fever, headache and chills"}
	svc := NewService(gen, rec, 0)

	terms, err := svc.ExtractSymptoms(context.Background(), "text")
	if err != nil {
		t.Fatalf("ExtractSymptoms returned error: %v", err)
	}
	if !reflect.DeepEqual(terms, []string{"fever"}) {
		t.Errorf("ExtractSymptoms = %v, want just the recognizer terms", terms)
	}
}
