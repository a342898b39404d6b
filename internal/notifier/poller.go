package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// CommandHandler is called when a user command is received. A non-empty reply is sent back.
type CommandHandler func(ctx context.Context, command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// Poller long-polls the Bot API for commands from known chats.
type Poller struct {
	Channel      *TelegramChannel
	AllowedChats map[string]bool // empty allows every chat
	PollTimeout  time.Duration
	RetryDelay   time.Duration
	client       *http.Client
	log          zerolog.Logger
}

// NewPoller creates a Poller that accepts commands only from allowed chat ids.
func NewPoller(ch *TelegramChannel, allowed []string, log zerolog.Logger) *Poller {
	chats := make(map[string]bool, len(allowed))
	for _, id := range allowed {
		chats[id] = true
	}
	p := &Poller{
		Channel:      ch,
		AllowedChats: chats,
		PollTimeout:  30 * time.Second,
		RetryDelay:   5 * time.Second,
		log:          log.With().Str("component", "poller").Logger(),
	}
	p.client = &http.Client{Timeout: p.PollTimeout + 5*time.Second}
	if ch.Client != nil && ch.Client.Transport != nil {
		p.client.Transport = ch.Client.Transport
	}
	return p
}

// Run begins long-polling for Telegram commands. Blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context, handler CommandHandler) {
	offset := 0
	for {
		if ctx.Err() != nil {
			p.log.Info().Msg("telegram polling stopped")
			return
		}

		updates, err := p.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				p.log.Info().Msg("telegram polling stopped")
				return
			}
			p.log.Warn().Err(err).Msg("polling request failed")
			select {
			case <-ctx.Done():
			case <-time.After(p.RetryDelay):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			chatID := strconv.FormatInt(update.Message.Chat.ID, 10)
			if len(p.AllowedChats) > 0 && !p.AllowedChats[chatID] {
				p.log.Warn().Str("chat_id", chatID).Msg("ignoring command from unknown chat")
				continue
			}
			text := strings.TrimSpace(update.Message.Text)
			p.log.Info().Str("chat_id", chatID).Str("command", text).Msg("received command")
			if reply := handler(ctx, text); reply != "" {
				if err := p.Channel.SendText(ctx, chatID, reply); err != nil {
					p.log.Error().Err(err).Msg("send reply")
				}
			}
		}
	}
}

func (p *Poller) getUpdates(ctx context.Context, offset int) ([]telegramUpdate, error) {
	apiURL := fmt.Sprintf("%s?offset=%d&timeout=%d", p.Channel.endpoint("getUpdates"), offset, int(p.PollTimeout.Seconds()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read polling response: %w", err)
	}
	var result struct {
		OK     bool             `json:"ok"`
		Result []telegramUpdate `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode polling response: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("telegram getUpdates: status %d, body: %s", resp.StatusCode, string(body))
	}
	return result.Result, nil
}
