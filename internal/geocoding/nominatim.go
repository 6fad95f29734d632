// Package geocoding - клиент геокодера Nominatim с обязательной паузой между запросами
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shenikar/osint_pipeline/internal/config"
	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/shenikar/osint_pipeline/pkg/httpclient"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

type Options struct {
	BaseURL   string
	UserAgent string
	Email     string
	// MinInterval не может быть меньше config.MinGeocodeInterval
	MinInterval time.Duration
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Nominatim выполняет не больше одного запроса за MinInterval.
// Ожидание блокирует вызывающего; ограничение действует в пределах одного клиента.
type Nominatim struct {
	baseURL   string
	userAgent string
	email     string
	client    *http.Client
	limiter   *rate.Limiter
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// StatusError - ответ геокодера с кодом, отличным от 2xx
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("geocoder returned %d", e.StatusCode)
}

func NewNominatim(opts Options) *Nominatim {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.MinInterval < config.MinGeocodeInterval {
		opts.MinInterval = config.MinGeocodeInterval
	}
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		opts.HTTPClient = httpclient.New(timeout)
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		email:     opts.Email,
		client:    opts.HTTPClient,
		limiter:   rate.NewLimiter(rate.Every(opts.MinInterval), 1),
	}
}

// Geocode возвращает координаты первого результата или nil, если ничего не найдено
func (n *Nominatim) Geocode(ctx context.Context, query string) (*models.Coordinates, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocoder rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")
	if n.email != "" {
		params.Set("email", n.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoder request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("coordinates out of range: %v,%v", lat, lng)
	}
	return &models.Coordinates{Latitude: lat, Longitude: lng}, nil
}
