package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/shenikar/osint_pipeline/internal/service"
)

const (
	incidentCacheTTL = 5 * time.Minute

	incidentColumns = `
			id,
			title,
			summary,
			category,
			severity,
			confidence,
			region,
			country,
			subdivision,
			location,
			lat,
			lng,
			status,
			sources,
			analyst,
			datetime,
			created_at`
)

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Summary,
		&incident.Category,
		&incident.Severity,
		&incident.Confidence,
		&incident.Region,
		&incident.Country,
		&incident.Subdivision,
		&incident.Location,
		&incident.Latitude,
		&incident.Longitude,
		&incident.Status,
		&incident.Sources,
		&incident.Analyst,
		&incident.Datetime,
		&incident.CreatedAt,
	)
	return incident, err
}

// CreateFromRawEvent создает инцидент и переводит сырое событие raw -> normalized в одной транзакции.
// Если событие уже не в статусе raw, транзакция откатывается с models.ErrAlreadyProcessed.
func (r *IncidentRepository) CreateFromRawEvent(ctx context.Context, incident *models.Incident, rawEventID uuid.UUID) (time.Time, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	sources := incident.Sources
	if sources == nil {
		sources = []string{}
	}

	query := `
		INSERT INTO incidents (title, summary, category, severity, confidence, region, country,
			subdivision, location, lat, lng, status, sources, analyst, datetime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at;
	`
	err = tx.QueryRow(ctx, query,
		incident.Title,
		incident.Summary,
		incident.Category,
		incident.Severity,
		incident.Confidence,
		incident.Region,
		incident.Country,
		incident.Subdivision,
		incident.Location,
		incident.Latitude,
		incident.Longitude,
		string(incident.Status),
		sources,
		incident.Analyst,
		incident.Datetime,
	).Scan(&incident.ID, &incident.CreatedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to create incident: %w", err)
	}

	var normalizedAt time.Time
	err = tx.QueryRow(ctx, `
		UPDATE raw_events SET
			status = 'normalized',
			incident_id = $1,
			normalized_at = NOW()
		WHERE id = $2 AND status = 'raw'
		RETURNING normalized_at;
	`, incident.ID, rawEventID).Scan(&normalizedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, models.ErrAlreadyProcessed
		}
		return time.Time{}, fmt.Errorf("failed to mark raw event normalized: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return time.Time{}, fmt.Errorf("failed to commit incident: %w", err)
	}
	return normalizedAt, nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT` + incidentColumns + `
		FROM incidents
		WHERE id = $1;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// buildListQuery собирает выборку по фильтру, новые инциденты первыми
func buildListQuery(filter models.IncidentFilter) (string, []any) {
	var where []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Region != "" {
		add("region = $%d", filter.Region)
	}
	if filter.Country != "" {
		add("country = $%d", filter.Country)
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if !filter.Since.IsZero() {
		add("datetime >= $%d", filter.Since)
	}
	if filter.OnlyGeocoded {
		where = append(where, "lat IS NOT NULL AND lng IS NOT NULL")
	}

	var b strings.Builder
	b.WriteString("SELECT" + incidentColumns + "\n\t\tFROM incidents")
	if len(where) > 0 {
		b.WriteString("\n\t\tWHERE " + strings.Join(where, " AND "))
	}
	b.WriteString("\n\t\tORDER BY datetime DESC, id")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, "\n\t\tLIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

// List возвращает инциденты по фильтру
func (r *IncidentRepository) List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	query, args := buildListQuery(filter)
	return r.queryIncidents(ctx, query, args...)
}

// ListMissingCoordinates возвращает инциденты без координат: сначала без попыток геокодирования,
// затем давно не проверявшиеся
func (r *IncidentRepository) ListMissingCoordinates(ctx context.Context, limit int) ([]*models.Incident, error) {
	query := `SELECT` + incidentColumns + `
		FROM incidents
		WHERE lat IS NULL OR lng IS NULL
		ORDER BY geocode_attempted_at NULLS FIRST, created_at DESC
		LIMIT $1;
	`
	return r.queryIncidents(ctx, query, limit)
}

func (r *IncidentRepository) queryIncidents(ctx context.Context, query string, args ...any) ([]*models.Incident, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// UpdateCoordinates записывает результат геокодирования, остальные поля не трогает
func (r *IncidentRepository) UpdateCoordinates(ctx context.Context, id uuid.UUID, coords models.Coordinates) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE incidents SET
			lat = $1,
			lng = $2,
			geocode_attempted_at = NOW()
		WHERE id = $3;
	`, coords.Latitude, coords.Longitude, id)
	if err != nil {
		return fmt.Errorf("failed to update incident coordinates: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// MarkGeocodeAttempt отмечает неудачную попытку, чтобы инцидент ушел в конец очереди
func (r *IncidentRepository) MarkGeocodeAttempt(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `UPDATE incidents SET geocode_attempted_at = NOW() WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("failed to mark geocode attempt: %w", err)
	}
	return nil
}

// ApplyReview сохраняет отзыв аналитика и исправленный инцидент в одной транзакции
func (r *IncidentRepository) ApplyReview(ctx context.Context, incident *models.Incident, feedback *models.ClassificationFeedback) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	err = tx.QueryRow(ctx, `
		INSERT INTO classification_feedback (incident_id, analyst_id, feedback_type,
			original_category, original_severity, original_confidence,
			corrected_category, corrected_severity, corrected_confidence, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at;
	`,
		feedback.IncidentID,
		feedback.AnalystID,
		string(feedback.FeedbackType),
		feedback.OriginalCategory,
		feedback.OriginalSeverity,
		feedback.OriginalConfidence,
		feedback.CorrectedCategory,
		feedback.CorrectedSeverity,
		feedback.CorrectedConfidence,
		feedback.Notes,
	).Scan(&feedback.ID, &feedback.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE incidents SET
			category = $1,
			severity = $2,
			confidence = $3,
			status = $4,
			analyst = $5
		WHERE id = $6;
	`,
		incident.Category,
		incident.Severity,
		incident.Confidence,
		string(incident.Status),
		incident.Analyst,
		incident.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reviewed incident: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s: %w", incident.ID, models.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit review: %w", err)
	}
	return nil
}

func incidentCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s", id.String())
}

// GetIncidentFromCache пытается получить инцидент из Redis; промах - (nil, nil)
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, incidentCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentCacheKey(incident.ID), val, incidentCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, incidentCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
