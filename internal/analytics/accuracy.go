package analytics

import (
	"sort"
	"time"

	"github.com/shenikar/osint_pipeline/internal/models"
)

// TrendWeeks - количество недельных окон, включая текущую неполную неделю
const TrendWeeks = 8

type CategoryAccuracy struct {
	Category         string  `json:"category"`
	Total            int     `json:"total"`
	ConfirmedCorrect int     `json:"confirmedCorrect"`
	AccuracyRate     float64 `json:"accuracyRate"`
}

type SeverityDrift struct {
	Corrections    int     `json:"corrections"`
	OverEstimated  int     `json:"overEstimated"`
	UnderEstimated int     `json:"underEstimated"`
	AvgDelta       float64 `json:"avgDelta"`
}

type WeeklyAccuracy struct {
	WeekStart        time.Time `json:"weekStart"`
	WeekEnd          time.Time `json:"weekEnd"`
	Total            int       `json:"total"`
	ConfirmedCorrect int       `json:"confirmedCorrect"`
	AccuracyRate     float64   `json:"accuracyRate"`
}

type AccuracyMetrics struct {
	TotalReviewed    int                `json:"totalReviewed"`
	ConfirmedCorrect int                `json:"confirmedCorrect"`
	Corrected        int                `json:"corrected"`
	AccuracyRate     float64            `json:"accuracyRate"`
	ByCategory       []CategoryAccuracy `json:"byCategory"`
	SeverityDrift    SeverityDrift      `json:"severityDrift"`
	WeeklyTrend      []WeeklyAccuracy   `json:"weeklyTrend"`
}

func rate(confirmed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(confirmed) * 100 / float64(total)
}

// Aggregate считает метрики точности классификации по записям обратной связи.
// Категория записи - исходная категория, выставленная классификатором.
func Aggregate(records []*models.ClassificationFeedback, now time.Time) AccuracyMetrics {
	var m AccuracyMetrics
	type tally struct{ total, confirmed int }
	categories := make(map[string]*tally)

	weekly := make([]WeeklyAccuracy, TrendWeeks)
	for i := range weekly {
		end := now.Add(-time.Duration(TrendWeeks-1-i) * 7 * 24 * time.Hour)
		weekly[i].WeekEnd = end
		weekly[i].WeekStart = end.Add(-7 * 24 * time.Hour)
	}

	var deltaSum int
	for _, r := range records {
		if r == nil {
			continue
		}
		confirmed := r.FeedbackType == models.FeedbackConfirmedCorrect

		m.TotalReviewed++
		t, ok := categories[r.OriginalCategory]
		if !ok {
			t = &tally{}
			categories[r.OriginalCategory] = t
		}
		t.total++
		if confirmed {
			m.ConfirmedCorrect++
			t.confirmed++
		} else if r.FeedbackType == models.FeedbackCorrected {
			m.Corrected++
			if r.CorrectedSeverity != nil {
				delta := *r.CorrectedSeverity - r.OriginalSeverity
				m.SeverityDrift.Corrections++
				deltaSum += delta
				switch {
				case delta < 0:
					m.SeverityDrift.OverEstimated++
				case delta > 0:
					m.SeverityDrift.UnderEstimated++
				}
			}
		}

		for i := range weekly {
			w := &weekly[i]
			if r.CreatedAt.After(w.WeekStart) && !r.CreatedAt.After(w.WeekEnd) {
				w.Total++
				if confirmed {
					w.ConfirmedCorrect++
				}
				break
			}
		}
	}

	m.AccuracyRate = rate(m.ConfirmedCorrect, m.TotalReviewed)
	if m.SeverityDrift.Corrections > 0 {
		m.SeverityDrift.AvgDelta = float64(deltaSum) / float64(m.SeverityDrift.Corrections)
	}

	m.ByCategory = make([]CategoryAccuracy, 0, len(categories))
	for name, t := range categories {
		m.ByCategory = append(m.ByCategory, CategoryAccuracy{
			Category:         name,
			Total:            t.total,
			ConfirmedCorrect: t.confirmed,
			AccuracyRate:     rate(t.confirmed, t.total),
		})
	}
	sort.Slice(m.ByCategory, func(i, j int) bool { return m.ByCategory[i].Category < m.ByCategory[j].Category })

	for i := range weekly {
		weekly[i].AccuracyRate = rate(weekly[i].ConfirmedCorrect, weekly[i].Total)
	}
	m.WeeklyTrend = weekly
	return m
}
