package analytics

import (
	"testing"
	"time"

	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	return dayStart(testNow).AddDate(0, 0, offset)
}

func assertDense(t *testing.T, series []TimeSeriesPoint, n int, end time.Time) {
	t.Helper()
	require.Len(t, series, n)
	assert.Equal(t, dayStart(end), series[n-1].Date)
	for i := 1; i < len(series); i++ {
		assert.Equal(t, 24*time.Hour, series[i].Date.Sub(series[i-1].Date))
	}
}

func TestFillDailySeries_ExactlyNDays(t *testing.T) {
	points := []TimeSeriesPoint{
		{Date: day(-3), Value: 2},
		{Date: day(-40), Value: 7},
		{Date: day(5), Value: 9},
	}
	for _, n := range []int{1, 7, 30, 365} {
		assertDense(t, FillDailySeries(points, n, testNow, FillZero), n, testNow)
		assertDense(t, FillDailySeries(points, n, testNow, FillCarry), n, testNow)
	}
	assert.Len(t, FillDailySeries(nil, 0, testNow, FillZero), DefaultLookbackDays)
}

func TestFillDailySeries_ZeroFill(t *testing.T) {
	points := []TimeSeriesPoint{
		{Date: day(-3), Value: 2},
		{Date: day(-3).Add(5 * time.Hour), Value: 1},
		{Date: day(0), Value: 4},
	}

	series := FillDailySeries(points, 5, testNow, FillZero)

	values := make([]float64, 0, len(series))
	for _, p := range series {
		values = append(values, p.Value)
	}
	assert.Equal(t, []float64{0, 3, 0, 0, 4}, values)
}

func TestFillDailySeries_CarryForward(t *testing.T) {
	points := []TimeSeriesPoint{
		{Date: day(-40), Value: 3},
		{Date: day(-5), Value: 4},
	}

	series := FillDailySeries(points, 10, testNow, FillCarry)

	values := make([]float64, 0, len(series))
	for _, p := range series {
		values = append(values, p.Value)
	}
	assert.Equal(t, []float64{3, 3, 3, 3, 4, 4, 4, 4, 4, 4}, values)
}

func TestBuildDailySeries_CountAndSeverity(t *testing.T) {
	incidents := []*models.Incident{
		{Category: "terrorism", Severity: 5, Datetime: day(-1).Add(2 * time.Hour)},
		{Category: "terrorism", Severity: 3, Datetime: day(-1).Add(9 * time.Hour)},
		{Category: "civil_unrest", Severity: 3, Datetime: day(0).Add(time.Hour)},
	}

	counts := BuildDailySeries(incidents, MetricCount, nil, 3, testNow)
	require.Len(t, counts, 3)
	assert.Equal(t, []float64{0, 2, 1}, []float64{counts[0].Value, counts[1].Value, counts[2].Value})

	severity := BuildDailySeries(incidents, MetricSeverity, nil, 3, testNow)
	assert.Equal(t, []float64{0, 4, 3}, []float64{severity[0].Value, severity[1].Value, severity[2].Value})

	filtered := BuildDailySeries(incidents, MetricCount, ByCategory("terrorism"), 3, testNow)
	assert.Equal(t, []float64{0, 2, 0}, []float64{filtered[0].Value, filtered[1].Value, filtered[2].Value})
}
