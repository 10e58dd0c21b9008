// Package notify delivers item notifications to Telegram.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sentinelai/sentinel/internal/logging"
)

// Telegram sends messages through the Bot API. The zero value is not usable;
// construct with NewTelegram.
type Telegram struct {
	token  string
	chatID string
	client *http.Client
}

// NewTelegram creates a notifier for one bot token and chat.
func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		token:  token,
		chatID: chatID,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Send posts one message. HTML parse mode so notifications can carry bold
// headers and links.
func (t *Telegram) Send(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)

	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "HTML")
	form.Set("disable_web_page_preview", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API error: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	logging.Debug("notification sent", "chars", len(text))
	return nil
}

// Escape neutralizes HTML metacharacters in user-controlled text so feed
// titles cannot break the parse mode.
func Escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
