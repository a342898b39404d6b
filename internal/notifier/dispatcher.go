package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"GoldSentinel/internal/model"
)

// Outcome is the result of one planned delivery.
type Outcome struct {
	Delivery model.Delivery
	Attempts int
	Err      error
}

// Dispatcher routes deliveries to their channel and retries failures.
type Dispatcher struct {
	channels    map[model.ChannelKind]Channel
	MaxRetries  int
	BaseBackoff time.Duration
	log         zerolog.Logger
}

// NewDispatcher creates a Dispatcher with 2 retries and a 1s base backoff.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		channels:    make(map[model.ChannelKind]Channel),
		MaxRetries:  2,
		BaseBackoff: time.Second,
		log:         log.With().Str("component", "dispatcher").Logger(),
	}
}

// Register sets the channel used for kind.
func (d *Dispatcher) Register(kind model.ChannelKind, ch Channel) {
	d.channels[kind] = ch
}

// Deliver sends every planned delivery in order. One failure never stops the rest.
func (d *Dispatcher) Deliver(ctx context.Context, plan []model.Delivery) []Outcome {
	outcomes := make([]Outcome, 0, len(plan))
	for _, del := range plan {
		out := Outcome{Delivery: del}
		ch, ok := d.channels[del.Recipient.Channel]
		if !ok {
			out.Err = fmt.Errorf("%w: no %s channel configured", ErrDeliveryFailure, del.Recipient.Channel)
		} else {
			out.Attempts, out.Err = d.sendWithRetry(ctx, ch, del)
		}

		ev := d.log.Info()
		if out.Err != nil {
			ev = d.log.Error().Err(out.Err)
		}
		ev.Str("channel", string(del.Recipient.Channel)).
			Str("recipient", del.Recipient.Address).
			Str("mode", string(del.Recipient.Mode)).
			Bool("urgent", del.Urgent).
			Int("attempts", out.Attempts).
			Msg("delivery")
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// sendWithRetry sends with exponential backoff retry.
func (d *Dispatcher) sendWithRetry(ctx context.Context, ch Channel, del model.Delivery) (int, error) {
	var lastErr error
	for i := 0; i <= d.MaxRetries; i++ {
		err := ch.Send(ctx, del)
		if err == nil {
			return i + 1, nil
		}
		lastErr = err
		if i == d.MaxRetries {
			break
		}
		backoff := time.Duration(1<<uint(i)) * d.BaseBackoff
		d.log.Warn().Err(err).
			Int("attempt", i+1).
			Int("max_attempts", d.MaxRetries+1).
			Dur("backoff", backoff).
			Msg("send failed, retrying")
		select {
		case <-ctx.Done():
			return i + 1, fmt.Errorf("%w: %w", ErrDeliveryFailure, ctx.Err())
		case <-time.After(backoff):
		}
	}
	return d.MaxRetries + 1, fmt.Errorf("%w: all %d attempts failed: %w", ErrDeliveryFailure, d.MaxRetries+1, lastErr)
}

// Failed counts the outcomes with an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
