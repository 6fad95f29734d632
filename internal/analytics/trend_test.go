package analytics

import (
	"testing"
	"time"

	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name          string
		recent, prior int
		want          TrendDirection
	}{
		{"zero by zero", 0, 0, TrendStable},
		{"from nothing", 5, 0, TrendRising},
		{"to nothing", 0, 5, TrendFalling},
		{"ratio 1.3", 13, 10, TrendRising},
		{"ratio exactly 1.2", 12, 10, TrendStable},
		{"ratio exactly 0.8", 8, 10, TrendStable},
		{"ratio 0.7", 7, 10, TrendFalling},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTrend(tt.recent, tt.prior))
		})
	}
}

func TestTrend_Windows(t *testing.T) {
	var incidents []*models.Incident
	for i := 0; i < 13; i++ {
		incidents = append(incidents, &models.Incident{Category: "terrorism", Region: "east", Datetime: testNow.Add(-24 * time.Hour)})
	}
	for i := 0; i < 10; i++ {
		incidents = append(incidents, &models.Incident{Category: "civil_unrest", Region: "west", Datetime: testNow.Add(-10 * 24 * time.Hour)})
	}
	// вне обоих окон
	incidents = append(incidents, &models.Incident{Category: "terrorism", Datetime: testNow.Add(-20 * 24 * time.Hour)})

	res := Trend(incidents, 7, testNow, nil)
	assert.Equal(t, 13, res.Recent)
	assert.Equal(t, 10, res.Prior)
	assert.InDelta(t, 1.3, res.Ratio, 1e-9)
	assert.Equal(t, TrendRising, res.Direction)
	assert.Equal(t, 7, res.PeriodDays)

	res = Trend(incidents, 7, testNow, ByCategory("civil_unrest"))
	assert.Equal(t, 0, res.Recent)
	assert.Equal(t, 10, res.Prior)
	assert.Equal(t, TrendFalling, res.Direction)

	res = Trend(incidents, 0, testNow, ByRegion("nowhere"))
	assert.Equal(t, TrendStable, res.Direction)
	assert.Equal(t, DefaultTrendPeriodDays, res.PeriodDays)
}
