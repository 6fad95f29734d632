package models

import (
	"time"

	"github.com/google/uuid"
)

type IncidentStatus string

const (
	IncidentStatusAI        IncidentStatus = "ai"
	IncidentStatusReviewed  IncidentStatus = "reviewed"
	IncidentStatusConfirmed IncidentStatus = "confirmed"
)

// Incident - нормализованная запись об инциденте
type Incident struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Summary     string         `json:"summary"`
	Category    string         `json:"category"`
	Severity    int            `json:"severity"`
	Confidence  int            `json:"confidence"`
	Region      string         `json:"region"`
	Country     string         `json:"country"`
	Subdivision string         `json:"subdivision"`
	Location    string         `json:"location"`
	Latitude    *float64       `json:"latitude"`
	Longitude   *float64       `json:"longitude"`
	Status      IncidentStatus `json:"status"`
	Sources     []string       `json:"sources"`
	Analyst     string         `json:"analyst"`
	Datetime    time.Time      `json:"datetime"`
	CreatedAt   time.Time      `json:"created_at"`
}

// HasCoordinates сообщает, заполнены ли координаты инцидента
func (i *Incident) HasCoordinates() bool {
	return i.Latitude != nil && i.Longitude != nil
}

// IncidentFilter - параметры выборки инцидентов
type IncidentFilter struct {
	Category string
	Region   string
	Country  string
	Status   IncidentStatus
	Since    time.Time
	// OnlyGeocoded ограничивает выборку инцидентами с координатами
	OnlyGeocoded bool
	Limit        int
	Offset       int
}

// Coordinates - результат геокодирования
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}
