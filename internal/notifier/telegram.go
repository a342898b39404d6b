package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"GoldSentinel/internal/model"
)

const telegramAPIBase = "https://api.telegram.org"

// telegramMaxRunes is the Bot API limit for a single message.
const telegramMaxRunes = 4096

// TelegramChannel sends messages via the Telegram Bot API. The recipient address is the chat id.
type TelegramChannel struct {
	BotToken string
	APIBase  string
	Client   *http.Client
}

// NewTelegramChannel creates a channel with optional proxy support.
func NewTelegramChannel(botToken, proxyURL string) *TelegramChannel {
	return &TelegramChannel{
		BotToken: botToken,
		APIBase:  telegramAPIBase,
		Client:   newHTTPClient(proxyURL, 30*time.Second),
	}
}

func (t *TelegramChannel) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", strings.TrimRight(t.APIBase, "/"), t.BotToken, method)
}

// Send posts the subject and body as plain text. Long bodies are split.
func (t *TelegramChannel) Send(ctx context.Context, d model.Delivery) error {
	text := d.Subject + "\n\n" + d.Body
	for _, chunk := range splitRunes(text, telegramMaxRunes) {
		if err := t.SendText(ctx, d.Recipient.Address, chunk); err != nil {
			return err
		}
	}
	return nil
}

// SendText sends a single message to chatID.
func (t *TelegramChannel) SendText(ctx context.Context, chatID, text string) error {
	payload := map[string]string{
		"chat_id": chatID,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// splitRunes cuts s into pieces of at most n runes, preferring line breaks.
func splitRunes(s string, n int) []string {
	runes := []rune(s)
	if len(runes) <= n {
		return []string{s}
	}
	var out []string
	for len(runes) > n {
		cut := n
		for i := n - 1; i >= n/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		out = append(out, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
