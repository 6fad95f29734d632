package analytics

import (
	"math"
	"time"

	"github.com/shenikar/osint_pipeline/internal/models"
)

type ForecastMethod string

const (
	MethodFlat           ForecastMethod = "flat"
	MethodLinear         ForecastMethod = "linear"
	MethodLinearSeasonal ForecastMethod = "linear_seasonal"
)

const (
	DefaultHorizon = 14
	MaxHorizon     = 90

	minTrendPoints    = 7
	minNonZeroPoints  = 3
	minSeasonalPoints = 14
	seasonLength      = 7
	bandZ             = 1.96
)

type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

type AutoForecast struct {
	Method   ForecastMethod    `json:"method"`
	Horizon  int               `json:"horizon"`
	Slope    float64           `json:"slope"`
	Sigma    float64           `json:"sigma"`
	History  []TimeSeriesPoint `json:"history"`
	Forecast []ForecastPoint   `json:"forecast"`
}

type ForecastRequest struct {
	Metric       Metric
	Filter       IncidentFilter
	LookbackDays int
	Horizon      int
	End          time.Time
}

// ForecastIncidents сворачивает инциденты в плотный дневной ряд и строит по нему прогноз
func ForecastIncidents(incidents []*models.Incident, req ForecastRequest) AutoForecast {
	if req.Metric == "" {
		req.Metric = MetricCount
	}
	if req.End.IsZero() {
		req.End = time.Now()
	}
	series := BuildDailySeries(incidents, req.Metric, req.Filter, req.LookbackDays, req.End)
	return Forecast(series, req.Horizon)
}

// Forecast экстраполирует плотный дневной ряд на horizon дней вперед.
// Короткие или почти пустые ряды дают плоский прогноз по среднему.
// Пустой ряд не задает опорной даты, поэтому прогноз для него пуст.
func Forecast(series []TimeSeriesPoint, horizon int) AutoForecast {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	if horizon > MaxHorizon {
		horizon = MaxHorizon
	}

	out := AutoForecast{
		Horizon:  horizon,
		History:  series,
		Forecast: make([]ForecastPoint, 0, horizon),
	}

	n := len(series)
	if n == 0 {
		out.Method = MethodFlat
		return out
	}
	values := make([]float64, n)
	nonZero := 0
	for i, p := range series {
		values[i] = p.Value
		if p.Value != 0 {
			nonZero++
		}
	}

	var predict func(x int) float64
	var residuals []float64

	if n < minTrendPoints || nonZero < minNonZeroPoints {
		out.Method = MethodFlat
		m := mean(values)
		predict = func(int) float64 { return m }
		residuals = make([]float64, n)
		for i, v := range values {
			residuals[i] = v - m
		}
	} else {
		slope, intercept := linearFit(values)
		out.Slope = slope
		out.Method = MethodLinear

		residuals = make([]float64, n)
		for i, v := range values {
			residuals[i] = v - (intercept + slope*float64(i))
		}

		seasonal := make([]float64, seasonLength)
		if n >= minSeasonalPoints {
			out.Method = MethodLinearSeasonal
			var sums [seasonLength]float64
			var counts [seasonLength]int
			for i, r := range residuals {
				sums[i%seasonLength] += r
				counts[i%seasonLength]++
			}
			for k := range seasonal {
				if counts[k] > 0 {
					seasonal[k] = sums[k] / float64(counts[k])
				}
			}
			for i := range residuals {
				residuals[i] -= seasonal[i%seasonLength]
			}
		}

		predict = func(x int) float64 {
			return intercept + slope*float64(x) + seasonal[x%seasonLength]
		}
	}

	out.Sigma = stddev(residuals)
	band := bandZ * out.Sigma

	start := dayStart(series[n-1].Date)

	for h := 1; h <= horizon; h++ {
		v := math.Max(0, predict(n-1+h))
		out.Forecast = append(out.Forecast, ForecastPoint{
			Date:  start.AddDate(0, 0, h),
			Value: v,
			Lower: math.Max(0, v-band),
			Upper: v + band,
		})
	}
	return out
}

// linearFit - метод наименьших квадратов по x = 0..n-1
func linearFit(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		sq += (v - m) * (v - m)
	}
	return math.Sqrt(sq / float64(len(values)-1))
}
