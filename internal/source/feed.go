package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/k3a/html2text"
	"github.com/mmcdole/gofeed"

	"github.com/shenikar/osint_pipeline/internal/config"
)

// feedOverlap - окно перед курсором, записи из которого отдаются повторно:
// ленты публикуют записи с одинаковой секундой и задним числом.
// Повторы отсекает проверка хэша содержимого.
const feedOverlap = 2 * time.Hour

type feedSource struct {
	cfg    config.SourceConfig
	opts   Options
	parser *gofeed.Parser
}

// NewFeedSource создает коннектор для RSS/Atom ленты. Курсор - время самой свежей записи (RFC3339)
func NewFeedSource(cfg config.SourceConfig, opts Options) (Source, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("rss source %q has no url", cfg.Label)
	}
	return &feedSource{cfg: cfg, opts: opts, parser: gofeed.NewParser()}, nil
}

func (s *feedSource) Config() config.SourceConfig { return s.cfg }

func (s *feedSource) Fetch(ctx context.Context, cursor string) (*Batch, error) {
	var since time.Time
	if cursor != "" {
		t, err := time.Parse(time.RFC3339, cursor)
		if err == nil {
			since = t
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", s.cfg.Key(), err)
	}
	if s.opts.UserAgent != "" {
		req.Header.Set("User-Agent", s.opts.UserAgent)
	}

	resp, err := s.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch feed: %w", s.cfg.Key(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ProviderError{Source: s.cfg.Key(), StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(b))}
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: parse feed: %w", s.cfg.Key(), err)
	}

	batch := &Batch{NextCursor: cursor}
	newest := since
	var cutoff time.Time
	if !since.IsZero() {
		cutoff = since.Add(-feedOverlap)
	}
	for _, it := range feed.Items {
		published := itemTime(it)
		if !cutoff.IsZero() && !published.IsZero() && published.Before(cutoff) {
			continue
		}
		if published.After(newest) {
			newest = published
		}

		text := itemText(it)
		if !usable(text, s.opts.MinTextLength) {
			batch.Skipped++
			continue
		}
		batch.Items = append(batch.Items, Item{
			ID:        itemID(it),
			Label:     s.cfg.Label,
			URL:       it.Link,
			Text:      text,
			Published: published,
		})
	}
	if newest.After(since) {
		batch.NextCursor = newest.UTC().Format(time.RFC3339)
	}
	return batch, nil
}

// Ack для лент не требуется: курсор хранится на нашей стороне
func (s *feedSource) Ack(context.Context, string) error { return nil }

func itemTime(it *gofeed.Item) time.Time {
	if it.PublishedParsed != nil {
		return it.PublishedParsed.UTC()
	}
	if it.UpdatedParsed != nil {
		return it.UpdatedParsed.UTC()
	}
	return time.Time{}
}

func itemID(it *gofeed.Item) string {
	switch {
	case it.GUID != "":
		return it.GUID
	case it.Link != "":
		return it.Link
	}
	return it.Title
}

func itemText(it *gofeed.Item) string {
	body := it.Description
	if body == "" {
		body = it.Content
	}
	body = strings.TrimSpace(html2text.HTML2Text(body))
	title := strings.TrimSpace(it.Title)
	switch {
	case title == "":
		return body
	case body == "":
		return title
	case strings.HasPrefix(body, title):
		return body
	}
	return title + "\n" + body
}
