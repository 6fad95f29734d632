package analytics

import (
	"time"

	"github.com/shenikar/osint_pipeline/internal/models"
)

type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendStable  TrendDirection = "stable"
)

const (
	DefaultTrendPeriodDays = 7

	risingRatio  = 1.2
	fallingRatio = 0.8
)

type TrendResult struct {
	Direction  TrendDirection `json:"direction"`
	Recent     int            `json:"recent"`
	Prior      int            `json:"prior"`
	Ratio      float64        `json:"ratio"`
	PeriodDays int            `json:"periodDays"`
}

// IncidentFilter отбирает инциденты для аналитики; nil - все
type IncidentFilter func(*models.Incident) bool

// ByCategory и ByRegion - фильтры для срезов по категории и региону
func ByCategory(category string) IncidentFilter {
	return func(i *models.Incident) bool { return i.Category == category }
}

func ByRegion(region string) IncidentFilter {
	return func(i *models.Incident) bool { return i.Region == region }
}

// ClassifyTrend сравнивает количество за последний период с предыдущим
func ClassifyTrend(recent, prior int) TrendDirection {
	switch {
	case recent == 0 && prior == 0:
		return TrendStable
	case prior == 0:
		return TrendRising
	}
	ratio := float64(recent) / float64(prior)
	switch {
	case ratio > risingRatio:
		return TrendRising
	case ratio < fallingRatio:
		return TrendFalling
	}
	return TrendStable
}

// Trend считает инциденты в окнах (now-p, now] и (now-2p, now-p]
func Trend(incidents []*models.Incident, periodDays int, now time.Time, filter IncidentFilter) TrendResult {
	if periodDays <= 0 {
		periodDays = DefaultTrendPeriodDays
	}
	period := time.Duration(periodDays) * 24 * time.Hour
	recentStart := now.Add(-period)
	priorStart := now.Add(-2 * period)

	res := TrendResult{PeriodDays: periodDays}
	for _, inc := range incidents {
		if inc == nil || (filter != nil && !filter(inc)) {
			continue
		}
		t := inc.Datetime
		switch {
		case t.After(recentStart) && !t.After(now):
			res.Recent++
		case t.After(priorStart) && !t.After(recentStart):
			res.Prior++
		}
	}
	if res.Prior > 0 {
		res.Ratio = float64(res.Recent) / float64(res.Prior)
	}
	res.Direction = ClassifyTrend(res.Recent, res.Prior)
	return res
}
