package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery_NoFilter(t *testing.T) {
	query, args := buildListQuery(models.IncidentFilter{})

	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "LIMIT")
	assert.Contains(t, query, "ORDER BY datetime DESC")
	assert.Empty(t, args)
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	since := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	query, args := buildListQuery(models.IncidentFilter{
		Category:     "terrorism",
		Region:       "east",
		Country:      "UA",
		Status:       models.IncidentStatusAI,
		Since:        since,
		OnlyGeocoded: true,
		Limit:        20,
		Offset:       40,
	})

	assert.Contains(t, query, "category = $1")
	assert.Contains(t, query, "region = $2")
	assert.Contains(t, query, "country = $3")
	assert.Contains(t, query, "status = $4")
	assert.Contains(t, query, "datetime >= $5")
	assert.Contains(t, query, "lat IS NOT NULL AND lng IS NOT NULL")
	assert.Contains(t, query, "LIMIT $6 OFFSET $7")
	assert.Equal(t, []any{"terrorism", "east", "UA", "ai", since, 20, 40}, args)
}

func TestBuildListQuery_PartialFilterNumbering(t *testing.T) {
	query, args := buildListQuery(models.IncidentFilter{Region: "west", Limit: 5})

	assert.Contains(t, query, "WHERE region = $1")
	assert.Contains(t, query, "LIMIT $2")
	assert.Equal(t, []any{"west", 5}, args)
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", unique)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
