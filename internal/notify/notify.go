// Package notify implements the outbound notification sink: transactional
// email through the Resend HTTP API, with a simulated fallback when no API
// key is configured. Delivery is fire-and-forget; nothing here may block or
// fail a progression transition.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/upperspacecase/habitspace/internal/habit"
)

// Async wraps a sink so Send returns immediately; delivery happens on a
// goroutine with its own timeout. Errors are logged and dropped, per the
// fire-and-forget contract.
type Async struct {
	inner habit.Notifier
	log   *zap.Logger
	wg    sync.WaitGroup
}

func NewAsync(inner habit.Notifier, log *zap.Logger) *Async {
	return &Async{inner: inner, log: log}
}

func (a *Async) Send(_ context.Context, n habit.Notification) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := a.inner.Send(ctx, n); err != nil {
			a.log.Warn("notification delivery failed",
				zap.String("kind", string(n.Kind)),
				zap.String("email", n.Email),
				zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until all in-flight deliveries finish. The CLI calls this
// before exiting so short-lived processes do not drop sends.
func (a *Async) Wait() {
	a.wg.Wait()
}
