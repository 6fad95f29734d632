package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shenikar/osint_pipeline/internal/config"
	"github.com/shenikar/osint_pipeline/internal/models"
)

const defaultTelegramBaseURL = "https://api.telegram.org"

type telegramSource struct {
	cfg      config.SourceConfig
	token    string
	baseURL  string
	channels map[string]struct{}
	opts     Options
}

type tgResponse struct {
	OK          bool       `json:"ok"`
	Result      []tgUpdate `json:"result"`
	ErrorCode   int        `json:"error_code"`
	Description string     `json:"description"`
}

type tgUpdate struct {
	UpdateID    int64      `json:"update_id"`
	ChannelPost *tgMessage `json:"channel_post"`
}

type tgMessage struct {
	MessageID int64  `json:"message_id"`
	Date      int64  `json:"date"`
	Text      string `json:"text"`
	Caption   string `json:"caption"`
	Chat      tgChat `json:"chat"`
}

type tgChat struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Username string `json:"username"`
}

// NewTelegramSource создает коннектор, опрашивающий getUpdates бота
func NewTelegramSource(cfg config.SourceConfig, opts Options) (Source, error) {
	token := cfg.ResolveToken()
	if token == "" {
		return nil, fmt.Errorf("%w: telegram source %q has no bot token", models.ErrMissingCredentials, cfg.Label)
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultTelegramBaseURL
	}
	channels := make(map[string]struct{}, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		ch = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ch), "@"))
		if ch != "" {
			channels[ch] = struct{}{}
		}
	}
	return &telegramSource{cfg: cfg, token: token, baseURL: base, channels: channels, opts: opts}, nil
}

func (s *telegramSource) Config() config.SourceConfig { return s.cfg }

func (s *telegramSource) Fetch(ctx context.Context, cursor string) (*Batch, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("offset", cursor)
	}
	q.Set("timeout", "0")
	q.Set("allowed_updates", `["channel_post"]`)

	resp, err := s.call(ctx, q)
	if err != nil {
		return nil, err
	}

	batch := &Batch{NextCursor: cursor}
	var maxID int64 = -1
	for _, upd := range resp.Result {
		if upd.UpdateID > maxID {
			maxID = upd.UpdateID
		}
		msg := upd.ChannelPost
		if msg == nil || !s.allowed(msg.Chat) {
			continue
		}
		text := msg.Text
		if text == "" {
			text = msg.Caption
		}
		if !usable(text, s.opts.MinTextLength) {
			batch.Skipped++
			continue
		}
		batch.Items = append(batch.Items, Item{
			ID:        fmt.Sprintf("%d:%d", msg.Chat.ID, msg.MessageID),
			Label:     chatLabel(msg.Chat, s.cfg.Label),
			URL:       postURL(msg.Chat, msg.MessageID),
			Text:      text,
			Published: time.Unix(msg.Date, 0).UTC(),
		})
	}
	if maxID >= 0 {
		batch.NextCursor = strconv.FormatInt(maxID+1, 10)
	}
	return batch, nil
}

// Ack вызывает getUpdates с offset, что подтверждает все предыдущие обновления
func (s *telegramSource) Ack(ctx context.Context, cursor string) error {
	if cursor == "" {
		return nil
	}
	q := url.Values{}
	q.Set("offset", cursor)
	q.Set("limit", "1")
	q.Set("timeout", "0")
	_, err := s.call(ctx, q)
	return err
}

func (s *telegramSource) call(ctx context.Context, q url.Values) (*tgResponse, error) {
	u := fmt.Sprintf("%s/bot%s/getUpdates?%s", s.baseURL, s.token, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", s.cfg.Key(), err)
	}
	if s.opts.UserAgent != "" {
		req.Header.Set("User-Agent", s.opts.UserAgent)
	}

	r, err := s.opts.HTTPClient.Do(req)
	if err != nil {
		// токен входит в URL, поэтому *url.Error разворачивается
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("%s: getUpdates request failed: %w", s.cfg.Key(), err)
	}
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", s.cfg.Key(), err)
	}

	var resp tgResponse
	jsonErr := json.Unmarshal(body, &resp)
	if r.StatusCode/100 != 2 {
		return nil, &ProviderError{Source: s.cfg.Key(), StatusCode: r.StatusCode, Message: resp.Description}
	}
	if jsonErr != nil {
		return nil, fmt.Errorf("%s: decode getUpdates: %w", s.cfg.Key(), jsonErr)
	}
	if !resp.OK {
		code := resp.ErrorCode
		if code == 0 {
			code = r.StatusCode
		}
		return nil, &ProviderError{Source: s.cfg.Key(), StatusCode: code, Message: resp.Description}
	}
	return &resp, nil
}

func (s *telegramSource) allowed(chat tgChat) bool {
	if len(s.channels) == 0 {
		return true
	}
	_, ok := s.channels[strings.ToLower(chat.Username)]
	return ok
}

func chatLabel(chat tgChat, fallback string) string {
	switch {
	case chat.Title != "":
		return chat.Title
	case chat.Username != "":
		return chat.Username
	}
	return fallback
}

func postURL(chat tgChat, messageID int64) string {
	if chat.Username == "" {
		return ""
	}
	return fmt.Sprintf("https://t.me/%s/%d", chat.Username, messageID)
}
