// Package source содержит коннекторы к внешним источникам сообщений
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shenikar/osint_pipeline/internal/config"
	"github.com/shenikar/osint_pipeline/pkg/httpclient"
)

// Item - кандидат в сырое событие
type Item struct {
	ID        string
	Label     string
	URL       string
	Text      string
	Published time.Time
	Extra     json.RawMessage
}

// Batch - результат одного опроса источника
type Batch struct {
	Items []Item
	// Skipped - элементы короче минимальной длины, это не ошибка
	Skipped    int
	NextCursor string
}

// Source - коннектор к одному внешнему провайдеру
type Source interface {
	Config() config.SourceConfig
	// Fetch возвращает элементы после cursor и следующий курсор
	Fetch(ctx context.Context, cursor string) (*Batch, error)
	// Ack подтверждает провайдеру потребление элементов до cursor
	Ack(ctx context.Context, cursor string) error
}

// Options - общие параметры коннекторов
type Options struct {
	HTTPClient    *http.Client
	Timeout       time.Duration
	MinTextLength int
	UserAgent     string
}

// Factory строит коннектор по конфигурации
type Factory func(cfg config.SourceConfig) (Source, error)

// NewFactory возвращает фабрику коннекторов с общими параметрами
func NewFactory(opts Options) Factory {
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		opts.HTTPClient = httpclient.New(timeout)
	}
	return func(cfg config.SourceConfig) (Source, error) {
		return NewFromConfig(cfg, opts)
	}
}

func NewFromConfig(cfg config.SourceConfig, opts Options) (Source, error) {
	switch cfg.Type {
	case config.SourceTypeTelegram:
		return NewTelegramSource(cfg, opts)
	case config.SourceTypeRSS:
		return NewFeedSource(cfg, opts)
	default:
		return nil, fmt.Errorf("unknown source type: %q", cfg.Type)
	}
}

// ProviderError - ответ провайдера с кодом, отличным от 2xx
type ProviderError struct {
	Source     string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: provider returned %d: %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: provider returned %d", e.Source, e.StatusCode)
}

// Soft сообщает, что ошибка касается только этого источника (не найден, нет доступа)
func (e *ProviderError) Soft() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}

// usable проверяет минимальную длину извлеченного текста
func usable(text string, minLen int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= minLen
}
