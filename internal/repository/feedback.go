package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/shenikar/osint_pipeline/internal/service"
)

const feedbackColumns = `
			id,
			incident_id,
			analyst_id,
			feedback_type,
			original_category,
			original_severity,
			original_confidence,
			corrected_category,
			corrected_severity,
			corrected_confidence,
			notes,
			created_at`

type FeedbackRepository struct {
	db *pgxpool.Pool
}

func NewFeedbackRepository(db *pgxpool.Pool) service.FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// List возвращает отзывы, созданные не раньше since (нулевое время - все)
func (r *FeedbackRepository) List(ctx context.Context, since time.Time) ([]*models.ClassificationFeedback, error) {
	query := `SELECT` + feedbackColumns + `
		FROM classification_feedback
		WHERE created_at >= $1
		ORDER BY created_at;
	`
	return r.query(ctx, query, since)
}

// ListByIncident возвращает историю проверок одного инцидента
func (r *FeedbackRepository) ListByIncident(ctx context.Context, incidentID uuid.UUID) ([]*models.ClassificationFeedback, error) {
	query := `SELECT` + feedbackColumns + `
		FROM classification_feedback
		WHERE incident_id = $1
		ORDER BY created_at;
	`
	return r.query(ctx, query, incidentID)
}

func (r *FeedbackRepository) query(ctx context.Context, query string, args ...any) ([]*models.ClassificationFeedback, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	records := make([]*models.ClassificationFeedback, 0)
	for rows.Next() {
		fb := &models.ClassificationFeedback{}
		err := rows.Scan(
			&fb.ID,
			&fb.IncidentID,
			&fb.AnalystID,
			&fb.FeedbackType,
			&fb.OriginalCategory,
			&fb.OriginalSeverity,
			&fb.OriginalConfidence,
			&fb.CorrectedCategory,
			&fb.CorrectedSeverity,
			&fb.CorrectedConfidence,
			&fb.Notes,
			&fb.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		records = append(records, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return records, nil
}
