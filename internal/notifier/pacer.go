package notifier

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/pworker3/whispers/internal/model"
)

// Sender delivers one formatted notification to the sink.
type Sender interface {
	Send(n model.Notification) error
}

// Pacer sends notifications strictly sequentially, spacing sends so the sink's
// rate limit is never hit.
type Pacer struct {
	sender  Sender
	limiter *rate.Limiter
}

// NewPacer creates a pacer that allows one send per interval.
func NewPacer(sender Sender, interval time.Duration) *Pacer {
	return &Pacer{
		sender:  sender,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// SendAll delivers the payloads in order. onSent is invoked synchronously
// after each successful send, so the caller's record of delivered items stays
// exact even when a later send fails. The first failure aborts the remainder
// of the batch; the failed item is not retried.
func (p *Pacer) SendAll(ctx context.Context, notifications []model.Notification, onSent func(i int)) error {
	for i, n := range notifications {
		if err := p.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("pacing wait: %w", err)
		}
		if err := p.sender.Send(n); err != nil {
			return fmt.Errorf("send %d/%d (%s): %w", i+1, len(notifications), n.Title, err)
		}
		if onSent != nil {
			onSent(i)
		}
	}
	return nil
}
