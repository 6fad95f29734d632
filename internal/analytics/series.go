package analytics

import (
	"sort"
	"time"

	"github.com/shenikar/osint_pipeline/internal/models"
)

const (
	DefaultLookbackDays = 90
	MaxLookbackDays     = 365
)

type Metric string

const (
	MetricCount    Metric = "count"
	MetricSeverity Metric = "severity"
)

// FillMode задает, чем заполняются пропущенные дни
type FillMode int

const (
	// FillZero вставляет 0 (счетчики)
	FillZero FillMode = iota
	// FillCarry повторяет последнее известное значение (средние)
	FillCarry
)

type TimeSeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ReduceDaily сворачивает инциденты в разреженный дневной ряд:
// количество за день или средняя тяжесть за день. Точки отсортированы по дате.
func ReduceDaily(incidents []*models.Incident, metric Metric, filter IncidentFilter) []TimeSeriesPoint {
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, inc := range incidents {
		if inc == nil || (filter != nil && !filter(inc)) {
			continue
		}
		day := dayStart(inc.Datetime)
		counts[day]++
		sums[day] += float64(inc.Severity)
	}

	points := make([]TimeSeriesPoint, 0, len(counts))
	for day, n := range counts {
		value := float64(n)
		if metric == MetricSeverity {
			value = sums[day] / float64(n)
		}
		points = append(points, TimeSeriesPoint{Date: day, Value: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// FillDailySeries строит плотный ряд ровно из lookbackDays последовательных дней,
// заканчивающийся днем end. Точки вне окна отбрасываются; для FillCarry последняя
// точка до окна задает начальное значение.
func FillDailySeries(points []TimeSeriesPoint, lookbackDays int, end time.Time, mode FillMode) []TimeSeriesPoint {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	last := dayStart(end)
	first := last.AddDate(0, 0, -(lookbackDays - 1))

	byDay := make(map[time.Time]float64, len(points))
	var carry float64
	var carryAt time.Time
	for _, p := range points {
		day := dayStart(p.Date)
		if day.Before(first) {
			if mode == FillCarry && !day.Before(carryAt) {
				carry, carryAt = p.Value, day
			}
			continue
		}
		if day.After(last) {
			continue
		}
		if mode == FillZero {
			byDay[day] += p.Value
		} else {
			byDay[day] = p.Value
		}
	}

	series := make([]TimeSeriesPoint, 0, lookbackDays)
	for i := 0; i < lookbackDays; i++ {
		day := first.AddDate(0, 0, i)
		v, ok := byDay[day]
		switch {
		case ok:
			carry = v
		case mode == FillCarry:
			v = carry
		default:
			v = 0
		}
		series = append(series, TimeSeriesPoint{Date: day, Value: v})
	}
	return series
}

// BuildDailySeries - общий конвейер для всех вариантов прогноза:
// свертка по дням, затем уплотнение
func BuildDailySeries(incidents []*models.Incident, metric Metric, filter IncidentFilter, lookbackDays int, end time.Time) []TimeSeriesPoint {
	mode := FillZero
	if metric == MetricSeverity {
		mode = FillCarry
	}
	return FillDailySeries(ReduceDaily(incidents, metric, filter), lookbackDays, end, mode)
}
