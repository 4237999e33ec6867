package service

import (
	"strings"

	"emotrack/internal/modules/survey/domain"
)

type SurveyService struct{}

func NewSurveyService() *SurveyService {
	return &SurveyService{}
}

// Prepare trims free-text notes and validates the entry. Numeric fields
// pass through untouched; a zero stays a zero.
func (s *SurveyService) Prepare(entry domain.Entry) (domain.Entry, error) {
	entry.Notes = strings.TrimSpace(entry.Notes)
	if err := entry.Validate(); err != nil {
		return domain.Entry{}, err
	}
	return entry, nil
}
