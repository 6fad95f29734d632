package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/shenikar/osint_pipeline/internal/service"
)

type RawEventRepository struct {
	db *pgxpool.Pool
}

func NewRawEventRepository(db *pgxpool.Pool) service.RawEventRepository {
	return &RawEventRepository{db: db}
}

// isUniqueViolation сообщает о нарушении ограничения уникальности
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// ExistsByHash проверяет, есть ли уже событие с таким хэшем содержимого
func (r *RawEventRepository) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM raw_events WHERE content_hash = $1);`, hash).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check content hash: %w", err)
	}
	return exists, nil
}

// Create записывает сырое событие. Уникальность хэша обеспечивает ограничение в бд,
// поэтому параллельные запуски не могут записать один хэш дважды.
func (r *RawEventRepository) Create(ctx context.Context, event *models.RawEvent) error {
	query := `
		INSERT INTO raw_events (source_type, source_label, source_url, raw_payload, content_hash, status)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6)
		RETURNING id, ingested_at;
	`
	err := r.db.QueryRow(ctx, query,
		event.SourceType,
		event.SourceLabel,
		event.SourceURL,
		string(event.RawPayload),
		event.ContentHash,
		string(event.Status),
	).Scan(&event.ID, &event.IngestedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateContent
		}
		return fmt.Errorf("failed to create raw event: %w", err)
	}
	return nil
}

// MarkRejected переводит событие в rejected с причиной; событие остается в таблице
func (r *RawEventRepository) MarkRejected(ctx context.Context, id uuid.UUID, reason string) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE raw_events SET
			status = 'rejected',
			reject_reason = $1
		WHERE id = $2 AND status = 'raw';
	`, reason, id)
	if err != nil {
		return fmt.Errorf("failed to reject raw event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("raw event %s: %w", id, models.ErrAlreadyProcessed)
	}
	return nil
}

// ListPending возвращает события, застрявшие в статусе raw, старые первыми
func (r *RawEventRepository) ListPending(ctx context.Context, limit int) ([]*models.RawEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, source_type, source_label, source_url, raw_payload, content_hash, status, ingested_at
		FROM raw_events
		WHERE status = 'raw'
		ORDER BY ingested_at
		LIMIT $1;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending raw events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.RawEvent, 0)
	for rows.Next() {
		event := &models.RawEvent{}
		var payload []byte
		err := rows.Scan(
			&event.ID,
			&event.SourceType,
			&event.SourceLabel,
			&event.SourceURL,
			&payload,
			&event.ContentHash,
			&event.Status,
			&event.IngestedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan raw event row: %w", err)
		}
		event.RawPayload = payload
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return events, nil
}
