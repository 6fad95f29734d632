// Package normalizer превращает классифицированное сырое событие в каноническую запись инцидента
package normalizer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shenikar/osint_pipeline/internal/classifier"
	"github.com/shenikar/osint_pipeline/internal/models"
)

const (
	MaxTitleLength   = 120
	MaxSummaryLength = 1000
)

type Normalizer struct {
	analyst string
	now     func() time.Time
}

func New(analyst string) *Normalizer {
	return &Normalizer{analyst: analyst, now: time.Now}
}

// DecodePayload разбирает конверт сырого события
func DecodePayload(raw *models.RawEvent) (*models.RawPayload, error) {
	if len(raw.RawPayload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", models.ErrInvalidPayload)
	}
	var p models.RawPayload
	if err := json.Unmarshal(raw.RawPayload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidPayload, err)
	}
	if strings.TrimSpace(p.Text) == "" {
		return nil, fmt.Errorf("%w: empty text", models.ErrInvalidPayload)
	}
	return &p, nil
}

// Normalize строит инцидент со статусом ai. Ошибка оборачивает models.ErrInvalidPayload
func (n *Normalizer) Normalize(raw *models.RawEvent, c classifier.Result) (*models.Incident, error) {
	payload, err := DecodePayload(raw)
	if err != nil {
		return nil, err
	}
	if c.Category == "" || c.Severity < 1 || c.Severity > 5 {
		return nil, fmt.Errorf("%w: incomplete classification %+v", models.ErrInvalidPayload, c)
	}

	text := strings.TrimSpace(payload.Text)
	happened := payload.Published
	if happened.IsZero() {
		happened = raw.IngestedAt
	}
	if happened.IsZero() {
		happened = n.now()
	}

	incident := &models.Incident{
		Title:       Title(text),
		Summary:     truncate(text, MaxSummaryLength),
		Category:    c.Category,
		Severity:    c.Severity,
		Confidence:  clampConfidence(c.BaseConfidence),
		Region:      payload.Region,
		Country:     payload.Country,
		Subdivision: payload.Subdivision,
		Location:    payload.Location,
		Status:      models.IncidentStatusAI,
		Analyst:     n.analyst,
		Datetime:    happened.UTC(),
	}
	if raw.SourceURL != "" {
		incident.Sources = []string{raw.SourceURL}
	} else {
		incident.Sources = []string{}
	}
	return incident, nil
}

// Title заменяет переводы строк пробелами и обрезает до MaxTitleLength
func Title(text string) string {
	r := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
	return strings.TrimSpace(truncate(r.Replace(text), MaxTitleLength))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func clampConfidence(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
