package validator

import (
	"errors"
	"testing"

	"github.com/medlane/prediag-backend/internal/entity"
)

func validRequest() *entity.SubmitSymptomsRequest {
	return &entity.SubmitSymptomsRequest{
		Name:     "Jane",
		Age:      34,
		Gender:   "female",
		Symptoms: "fever and headache",
	}
}

func TestValidateSubmitSymptoms(t *testing.T) {
	v := New()

	if err := v.ValidateSubmitSymptoms(validRequest()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*entity.SubmitSymptomsRequest)
		want   error
	}{
		{"empty name", func(r *entity.SubmitSymptomsRequest) { r.Name = "  " }, entity.ErrMissingField},
		{"empty symptoms", func(r *entity.SubmitSymptomsRequest) { r.Symptoms = "" }, entity.ErrMissingField},
		{"empty gender", func(r *entity.SubmitSymptomsRequest) { r.Gender = "" }, entity.ErrMissingField},
		{"negative age", func(r *entity.SubmitSymptomsRequest) { r.Age = -1 }, entity.ErrInvalidParameter},
		{"age too high", func(r *entity.SubmitSymptomsRequest) { r.Age = 121 }, entity.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			if err := v.ValidateSubmitSymptoms(req); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateReportFormat(t *testing.T) {
	v := New()

	tests := []struct {
		in   string
		want entity.ResultFormat
	}{
		{"", entity.FormatPDF},
		{"pdf", entity.FormatPDF},
		{"PDF", entity.FormatPDF},
		{"md", entity.FormatMarkdown},
		{"docx", entity.FormatDOCX},
	}

	for _, tt := range tests {
		got, err := v.ValidateReportFormat(tt.in)
		if err != nil {
			t.Errorf("ValidateReportFormat(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateReportFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := v.ValidateReportFormat("rtf"); !errors.Is(err, entity.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}
