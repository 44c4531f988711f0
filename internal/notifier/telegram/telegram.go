package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/newthinker/pricedash/internal/notifier"
)

// DefaultAPIURL is the Telegram Bot API root.
const DefaultAPIURL = "https://api.telegram.org"

// Telegram implements the Notifier interface for Telegram Bot API
type Telegram struct {
	botToken string
	chatID   string
	apiURL   string
	client   *http.Client
}

// New creates a new Telegram notifier
func New(botToken, chatID string) *Telegram {
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		apiURL:   DefaultAPIURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (t *Telegram) Name() string {
	return "telegram"
}

func (t *Telegram) Init(cfg notifier.Config) error {
	if token, ok := cfg.Params["bot_token"].(string); ok {
		t.botToken = token
	}
	if chatID, ok := cfg.Params["chat_id"].(string); ok {
		t.chatID = chatID
	}
	if apiURL, ok := cfg.Params["api_url"].(string); ok && apiURL != "" {
		t.apiURL = apiURL
	}

	if t.botToken == "" {
		return fmt.Errorf("telegram: bot_token is required")
	}
	if t.chatID == "" {
		return fmt.Errorf("telegram: chat_id is required")
	}
	if t.apiURL == "" {
		t.apiURL = DefaultAPIURL
	}
	if t.client == nil {
		t.client = &http.Client{Timeout: 30 * time.Second}
	}

	return nil
}

func (t *Telegram) Send(ctx context.Context, ev notifier.Event) error {
	return t.sendMessage(ctx, t.formatEvent(ev))
}

func (t *Telegram) formatEvent(ev notifier.Event) string {
	var sb strings.Builder

	emoji := "✅"
	if ev.Failed() {
		emoji = "❌"
	}

	kind := "Training run"
	if ev.RunType == "sample-data" {
		kind = "Sample data regeneration"
	}

	sb.WriteString(fmt.Sprintf("%s *%s* %s\n", emoji, kind, ev.Status))
	if ev.Message != "" {
		sb.WriteString(fmt.Sprintf("💬 %s\n", ev.Message))
	}
	if ev.Error != "" {
		sb.WriteString(fmt.Sprintf("⚠️ %s\n", ev.Error))
	}
	if !ev.StartedAt.IsZero() && ev.FinishedAt.After(ev.StartedAt) {
		sb.WriteString(fmt.Sprintf("⏱ Duration: %s\n", ev.FinishedAt.Sub(ev.StartedAt).Round(time.Second)))
	}
	sb.WriteString(fmt.Sprintf("🆔 %s", ev.RunID))

	return sb.String()
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(t.apiURL, "/"), t.botToken)

	payload := map[string]any{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("telegram: API error (status %d): %v", resp.StatusCode, result)
	}

	return nil
}
