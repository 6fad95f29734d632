package analytics

import (
	"testing"

	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesOf(values ...float64) []TimeSeriesPoint {
	out := make([]TimeSeriesPoint, len(values))
	for i, v := range values {
		out[i] = TimeSeriesPoint{Date: day(i - len(values) + 1), Value: v}
	}
	return out
}

func ramp(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

func TestForecast_HorizonAndDates(t *testing.T) {
	series := seriesOf(ramp(30, func(i int) float64 { return float64(i % 5) })...)

	fc := Forecast(series, 10)

	require.Len(t, fc.Forecast, 10)
	assert.Equal(t, 10, fc.Horizon)
	assert.Equal(t, day(1), fc.Forecast[0].Date)
	assert.Equal(t, day(10), fc.Forecast[9].Date)
	assert.Equal(t, series, fc.History)
}

func TestForecast_Deterministic(t *testing.T) {
	series := seriesOf(ramp(45, func(i int) float64 { return float64((i*7)%11) + float64(i)/3 })...)
	assert.Equal(t, Forecast(series, 14), Forecast(series, 14))
}

func TestForecast_LinearTrend(t *testing.T) {
	series := seriesOf(ramp(30, func(i int) float64 { return float64(i) })...)

	fc := Forecast(series, 3)

	assert.Equal(t, MethodLinearSeasonal, fc.Method)
	assert.InDelta(t, 1, fc.Slope, 1e-9)
	assert.InDelta(t, 0, fc.Sigma, 1e-9)
	assert.InDelta(t, 30, fc.Forecast[0].Value, 1e-6)
	assert.InDelta(t, 32, fc.Forecast[2].Value, 1e-6)
}

func TestForecast_LinearWithoutSeasonality(t *testing.T) {
	series := seriesOf(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	fc := Forecast(series, 2)
	assert.Equal(t, MethodLinear, fc.Method)
	assert.InDelta(t, 11, fc.Forecast[0].Value, 1e-6)
}

func TestForecast_ShortSeriesIsFlat(t *testing.T) {
	fc := Forecast(seriesOf(2, 4, 6, 8), 5)

	assert.Equal(t, MethodFlat, fc.Method)
	require.Len(t, fc.Forecast, 5)
	for _, p := range fc.Forecast {
		assert.InDelta(t, 5, p.Value, 1e-9)
	}
}

func TestForecast_SparseSeriesIsFlat(t *testing.T) {
	values := make([]float64, 30)
	values[3], values[20] = 4, 2

	fc := Forecast(seriesOf(values...), 7)

	assert.Equal(t, MethodFlat, fc.Method)
	assert.InDelta(t, 0.2, fc.Forecast[0].Value, 1e-9)
}

func TestForecast_ClampedNonNegative(t *testing.T) {
	series := seriesOf(ramp(20, func(i int) float64 { return float64(19 - i) })...)

	fc := Forecast(series, 10)

	for _, p := range fc.Forecast {
		assert.GreaterOrEqual(t, p.Value, 0.0)
		assert.GreaterOrEqual(t, p.Lower, 0.0)
		assert.GreaterOrEqual(t, p.Upper, p.Value)
	}
	assert.Zero(t, fc.Forecast[9].Value)
}

func TestForecast_HorizonBounds(t *testing.T) {
	series := seriesOf(1, 1, 1)
	assert.Len(t, Forecast(series, 0).Forecast, DefaultHorizon)
	assert.Len(t, Forecast(series, 1000).Forecast, MaxHorizon)
}

func TestForecastIncidents_SharedPipeline(t *testing.T) {
	var incidents []*models.Incident
	for i := 0; i < 20; i++ {
		incidents = append(incidents, &models.Incident{Category: "terrorism", Region: "east", Severity: 4, Datetime: day(-i)})
	}

	req := ForecastRequest{Metric: MetricCount, Filter: ByRegion("east"), LookbackDays: 30, Horizon: 7, End: testNow}
	fc := ForecastIncidents(incidents, req)

	assert.Equal(t, BuildDailySeries(incidents, MetricCount, ByRegion("east"), 30, testNow), fc.History)
	require.Len(t, fc.History, 30)
	require.Len(t, fc.Forecast, 7)

	empty := ForecastIncidents(incidents, ForecastRequest{Filter: ByRegion("west"), LookbackDays: 30, Horizon: 7, End: testNow})
	assert.Equal(t, MethodFlat, empty.Method)
	for _, p := range empty.Forecast {
		assert.Zero(t, p.Value)
	}
}

func TestForecast_EmptySeries(t *testing.T) {
	fc := Forecast(nil, 5)

	assert.Equal(t, MethodFlat, fc.Method)
	assert.Equal(t, 5, fc.Horizon)
	assert.Empty(t, fc.Forecast)
	assert.Equal(t, fc, Forecast(nil, 5))
}
