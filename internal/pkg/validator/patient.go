package validator

import (
	"fmt"
	"strings"

	"github.com/medlane/prediag-backend/internal/entity"
)

const (
	minAge = 0
	maxAge = 120
)

// Validator checks inbound patient submissions.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateSubmitSymptoms validates the POST /symptom body.
func (v *Validator) ValidateSubmitSymptoms(req *entity.SubmitSymptomsRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name", entity.ErrMissingField)
	}

	if strings.TrimSpace(req.Symptoms) == "" {
		return fmt.Errorf("%w: symptoms", entity.ErrMissingField)
	}

	if strings.TrimSpace(req.Gender) == "" {
		return fmt.Errorf("%w: gender", entity.ErrMissingField)
	}

	if req.Age < minAge || req.Age > maxAge {
		return fmt.Errorf("%w: age must be between %d and %d, got %d", entity.ErrInvalidParameter, minAge, maxAge, req.Age)
	}

	return nil
}

// ValidateReportFormat checks the ?format= query value of the report
// endpoint. An empty value defaults to PDF.
func (v *Validator) ValidateReportFormat(format string) (entity.ResultFormat, error) {
	switch entity.ResultFormat(strings.ToLower(format)) {
	case "", entity.FormatPDF:
		return entity.FormatPDF, nil
	case entity.FormatMarkdown:
		return entity.FormatMarkdown, nil
	case entity.FormatDOCX:
		return entity.FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: format %q", entity.ErrInvalidParameter, format)
	}
}
