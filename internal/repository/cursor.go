package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/osint_pipeline/internal/service"
)

type CursorRepository struct {
	db *pgxpool.Pool
}

func NewCursorRepository(db *pgxpool.Pool) service.CursorRepository {
	return &CursorRepository{db: db}
}

// Get возвращает сохраненный курсор источника или пустую строку
func (r *CursorRepository) Get(ctx context.Context, sourceKey string) (string, error) {
	var cursor string
	err := r.db.QueryRow(ctx, `SELECT cursor FROM source_cursors WHERE source_key = $1;`, sourceKey).Scan(&cursor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get source cursor: %w", err)
	}
	return cursor, nil
}

// Save сохраняет курсор источника
func (r *CursorRepository) Save(ctx context.Context, sourceKey, cursor string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO source_cursors (source_key, cursor, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (source_key) DO UPDATE SET
			cursor = EXCLUDED.cursor,
			updated_at = EXCLUDED.updated_at;
	`, sourceKey, cursor)
	if err != nil {
		return fmt.Errorf("failed to save source cursor: %w", err)
	}
	return nil
}
