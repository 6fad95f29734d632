package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type RawEventStatus string

const (
	RawEventStatusRaw        RawEventStatus = "raw"
	RawEventStatusNormalized RawEventStatus = "normalized"
	RawEventStatusRejected   RawEventStatus = "rejected"
	RawEventStatusDuplicate  RawEventStatus = "duplicate"
)

// RawEvent - запись промежуточной таблицы, по одной на каждый полученный из источника элемент
type RawEvent struct {
	ID           uuid.UUID       `json:"id"`
	SourceType   string          `json:"source_type"`
	SourceLabel  string          `json:"source_label"`
	SourceURL    string          `json:"source_url"`
	RawPayload   json.RawMessage `json:"raw_payload"`
	ContentHash  string          `json:"content_hash"`
	Status       RawEventStatus  `json:"status"`
	IncidentID   *uuid.UUID      `json:"incident_id,omitempty"`
	IngestedAt   time.Time       `json:"ingested_at"`
	NormalizedAt *time.Time      `json:"normalized_at,omitempty"`
}

// RawPayload - конверт, в котором коннектор сохраняет исходный элемент
type RawPayload struct {
	ItemID      string          `json:"item_id"`
	Text        string          `json:"text"`
	Published   time.Time       `json:"published"`
	Region      string          `json:"region,omitempty"`
	Country     string          `json:"country,omitempty"`
	Subdivision string          `json:"subdivision,omitempty"`
	Location    string          `json:"location,omitempty"`
	Extra       json.RawMessage `json:"extra,omitempty"`
}
