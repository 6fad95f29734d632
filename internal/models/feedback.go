package models

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackType string

const (
	FeedbackConfirmedCorrect FeedbackType = "confirmed_correct"
	FeedbackCorrected        FeedbackType = "corrected"
)

// ClassificationFeedback - неизменяемая запись о проверке классификации аналитиком
type ClassificationFeedback struct {
	ID                  uuid.UUID    `json:"id"`
	IncidentID          uuid.UUID    `json:"incident_id"`
	AnalystID           string       `json:"analyst_id"`
	FeedbackType        FeedbackType `json:"feedback_type"`
	OriginalCategory    string       `json:"original_category"`
	OriginalSeverity    int          `json:"original_severity"`
	OriginalConfidence  int          `json:"original_confidence"`
	CorrectedCategory   *string      `json:"corrected_category,omitempty"`
	CorrectedSeverity   *int         `json:"corrected_severity,omitempty"`
	CorrectedConfidence *int         `json:"corrected_confidence,omitempty"`
	Notes               *string      `json:"notes,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
}
