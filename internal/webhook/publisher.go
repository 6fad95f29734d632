package webhook

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/osint_pipeline/internal/models"
)

const (
	alertQueueKey = "incident_alerts"
)

// AlertEvent - уведомление о новом инциденте высокой тяжести
type AlertEvent struct {
	IncidentID uuid.UUID `json:"incident_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Severity   int       `json:"severity"`
	Confidence int       `json:"confidence"`
	Region     string    `json:"region,omitempty"`
	Country    string    `json:"country,omitempty"`
	SourceURL  string    `json:"source_url,omitempty"`
	Datetime   time.Time `json:"datetime"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewAlertEvent строит событие по инциденту
func NewAlertEvent(incident *models.Incident) AlertEvent {
	event := AlertEvent{
		IncidentID: incident.ID,
		Title:      incident.Title,
		Category:   incident.Category,
		Severity:   incident.Severity,
		Confidence: incident.Confidence,
		Region:     incident.Region,
		Country:    incident.Country,
		Datetime:   incident.Datetime,
		Timestamp:  time.Now().UTC(),
	}
	if len(incident.Sources) > 0 {
		event.SourceURL = incident.Sources[0]
	}
	return event
}

// AlertPublisher - интерфейс для публикации уведомлений
type AlertPublisher interface {
	Publish(ctx context.Context, event AlertEvent) error
}

// RedisAlertPublisher - реализация AlertPublisher, использующая очередь Redis
type RedisAlertPublisher struct {
	redisClient *redis.Client
}

func NewRedisAlertPublisher(client *redis.Client) *RedisAlertPublisher {
	return &RedisAlertPublisher{
		redisClient: client,
	}
}

// Publish кладет событие в левую часть списка, воркер забирает справа
func (p *RedisAlertPublisher) Publish(ctx context.Context, event AlertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	if err := p.redisClient.LPush(ctx, alertQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish alert event to Redis: %w", err)
	}
	return nil
}
