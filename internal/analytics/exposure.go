package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shenikar/osint_pipeline/internal/models"
)

type ExposureLevel string

const (
	ExposureMinimal  ExposureLevel = "minimal"
	ExposureLow      ExposureLevel = "low"
	ExposureModerate ExposureLevel = "moderate"
	ExposureElevated ExposureLevel = "elevated"
	ExposureCritical ExposureLevel = "critical"
)

const (
	DefaultRadiusKm   = 50.0
	DefaultMaxAgeDays = 30.0

	contributionScale = 20.0
	densityFactor     = 0.3
	routeMaxWeight    = 0.7
	routeAvgWeight    = 0.3
)

// levelBands проверяются сверху вниз, возвращается первое совпадение
var levelBands = []struct {
	min   int
	level ExposureLevel
}{
	{80, ExposureCritical},
	{60, ExposureElevated},
	{40, ExposureModerate},
	{20, ExposureLow},
}

type ExposureOptions struct {
	RadiusKm   float64
	MaxAgeDays float64
	Now        time.Time
}

func (o ExposureOptions) withDefaults() ExposureOptions {
	if o.RadiusKm <= 0 {
		o.RadiusKm = DefaultRadiusKm
	}
	if o.MaxAgeDays <= 0 {
		o.MaxAgeDays = DefaultMaxAgeDays
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

type ExposureResult struct {
	Score            int           `json:"score"`
	Level            ExposureLevel `json:"level"`
	NearbyCount      int           `json:"nearbyCount"`
	DominantCategory string        `json:"dominantCategory,omitempty"`
}

// RouteExposure - итог по маршруту и результаты по каждой точке.
// NearbyCount маршрута - максимум по точкам, а не объединение без повторов:
// инцидент рядом с двумя точками учитывается в обеих.
type RouteExposure struct {
	ExposureResult
	Waypoints []ExposureResult `json:"waypoints"`
}

// LevelForScore переводит балл в дискретный уровень
func LevelForScore(score int) ExposureLevel {
	for _, b := range levelBands {
		if score >= b.min {
			return b.level
		}
	}
	return ExposureMinimal
}

// Contribution - вклад одного инцидента: severity/5 * recency * proximity * 20.
// ok=false, если инцидент вне радиуса, старше maxAge или без координат.
func Contribution(point GeoPoint, inc *models.Incident, opts ExposureOptions) (value float64, ok bool) {
	opts = opts.withDefaults()
	if inc == nil || !inc.HasCoordinates() {
		return 0, false
	}

	distance := HaversineKm(point, GeoPoint{Lat: *inc.Latitude, Lng: *inc.Longitude})
	if distance > opts.RadiusKm {
		return 0, false
	}
	ageDays := opts.Now.Sub(inc.Datetime).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	if ageDays > opts.MaxAgeDays {
		return 0, false
	}

	severity := math.Max(1, math.Min(5, float64(inc.Severity)))
	severityWeight := severity / 5
	recencyWeight := math.Max(0, 1-ageDays/opts.MaxAgeDays)
	proximityWeight := math.Max(0, 1-distance/opts.RadiusKm)

	return severityWeight * recencyWeight * proximityWeight * contributionScale, true
}

// ScoreExposure считает балл подверженности риску в точке
func ScoreExposure(point GeoPoint, incidents []*models.Incident, opts ExposureOptions) ExposureResult {
	opts = opts.withDefaults()

	var sum float64
	nearby := 0
	byCategory := make(map[string]float64)
	countByCategory := make(map[string]int)
	for _, inc := range incidents {
		c, ok := Contribution(point, inc, opts)
		if !ok {
			continue
		}
		nearby++
		sum += c
		byCategory[inc.Category] += c
		countByCategory[inc.Category]++
	}

	amplifier := 1.0
	if nearby > 0 {
		amplifier = 1 + math.Log2(float64(nearby))*densityFactor
	}
	score := clampScore(math.Round(sum * amplifier))

	return ExposureResult{
		Score:            score,
		Level:            LevelForScore(score),
		NearbyCount:      nearby,
		DominantCategory: dominantCategory(byCategory, countByCategory),
	}
}

// ScoreRoute оценивает каждую точку маршрута и смешивает: max*0.7 + avg*0.3
func ScoreRoute(waypoints []GeoPoint, incidents []*models.Incident, opts ExposureOptions) RouteExposure {
	opts = opts.withDefaults()
	route := RouteExposure{
		ExposureResult: ExposureResult{Level: ExposureMinimal},
		Waypoints:      make([]ExposureResult, 0, len(waypoints)),
	}
	if len(waypoints) == 0 {
		return route
	}

	maxScore, total := 0, 0
	var top ExposureResult
	for i, wp := range waypoints {
		res := ScoreExposure(wp, incidents, opts)
		route.Waypoints = append(route.Waypoints, res)
		total += res.Score
		if i == 0 || res.Score > maxScore {
			maxScore = res.Score
			top = res
		}
		if res.NearbyCount > route.NearbyCount {
			route.NearbyCount = res.NearbyCount
		}
	}

	avg := float64(total) / float64(len(waypoints))
	score := clampScore(math.Round(float64(maxScore)*routeMaxWeight + avg*routeAvgWeight))
	route.Score = score
	route.Level = LevelForScore(score)
	route.DominantCategory = top.DominantCategory
	return route
}

func clampScore(v float64) int {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

func dominantCategory(weights map[string]float64, counts map[string]int) string {
	if len(weights) == 0 {
		return ""
	}
	cats := make([]string, 0, len(weights))
	for c := range weights {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		a, b := cats[i], cats[j]
		if weights[a] != weights[b] {
			return weights[a] > weights[b]
		}
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return a < b
	})
	return cats[0]
}
