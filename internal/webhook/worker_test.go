package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/osint_pipeline/internal/config"
	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(url string) *AlertWorker {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{
		WebhookURL:        url,
		WebhookSecret:     "s3cret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	return NewAlertWorker(nil, logger, cfg)
}

func TestAlertWorker_DeliverSignsPayload(t *testing.T) {
	payload := `{"incident_id":"x","severity":5}`
	var gotSig, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotSig = r.Header.Get(signatureHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := newTestWorker(srv.URL)
	require.NoError(t, w.deliver(context.Background(), payload))

	assert.Equal(t, payload, gotBody)
	assert.Equal(t, generateHMACSHA256(payload, "s3cret"), gotSig)
	assert.Len(t, gotSig, 64)
}

func TestAlertWorker_RetriesUntilSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := newTestWorker(srv.URL)
	w.processAlertEvent(context.Background(), AlertEvent{IncidentID: uuid.New(), Severity: 5}, `{}`)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestAlertWorker_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := newTestWorker(srv.URL)
	w.processAlertEvent(context.Background(), AlertEvent{IncidentID: uuid.New()}, `{}`)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestAlertWorker_SkipsWithoutURL(t *testing.T) {
	w := newTestWorker("")
	assert.NotPanics(t, func() {
		w.processAlertEvent(context.Background(), AlertEvent{}, `{}`)
	})
}

func TestNewAlertEvent(t *testing.T) {
	inc := &models.Incident{
		ID:       uuid.New(),
		Title:    "Explosion near rail depot",
		Category: "terrorism",
		Severity: 5,
		Region:   "East",
		Sources:  []string{"https://t.me/watch/1", "https://example.org/2"},
	}

	ev := NewAlertEvent(inc)
	assert.Equal(t, inc.ID, ev.IncidentID)
	assert.Equal(t, "https://t.me/watch/1", ev.SourceURL)
	assert.Equal(t, 5, ev.Severity)
	assert.False(t, ev.Timestamp.IsZero())
}
