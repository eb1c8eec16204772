package client

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// TimerSnapshot is one observation of the competition state, with the
// countdown already derived against the poller's clock.
type TimerSnapshot struct {
	Settings  Settings
	Remaining time.Duration
	Fraction  float64
	Err       error
}

// Watcher polls the settings endpoint at a fixed interval and emits a
// snapshot per poll. Clients that want a smooth per-second display
// derive intermediate values themselves from Settings.
type Watcher struct {
	client   *Client
	interval time.Duration
	clock    clockwork.Clock
}

func NewWatcher(c *Client, interval time.Duration) *Watcher {
	return NewWatcherWithClock(c, interval, clockwork.NewRealClock())
}

func NewWatcherWithClock(c *Client, interval time.Duration, clock clockwork.Clock) *Watcher {
	return &Watcher{client: c, interval: interval, clock: clock}
}

// Watch polls until ctx is cancelled. The returned channel is closed
// on cancellation. A failed poll emits a snapshot with Err set and
// polling continues.
func (w *Watcher) Watch(ctx context.Context) <-chan TimerSnapshot {
	snapshots := make(chan TimerSnapshot)
	go func() {
		defer close(snapshots)
		ticker := w.clock.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			snapshot := w.poll(ctx)
			select {
			case snapshots <- snapshot:
			case <-ctx.Done():
				return
			}
			select {
			case <-ticker.Chan():
			case <-ctx.Done():
				return
			}
		}
	}()
	return snapshots
}

func (w *Watcher) poll(ctx context.Context) TimerSnapshot {
	settings, err := w.client.GetSettings(ctx)
	if err != nil {
		return TimerSnapshot{Err: err}
	}
	now := w.clock.Now().UTC()
	return TimerSnapshot{
		Settings:  settings,
		Remaining: settings.Remaining(now),
		Fraction:  settings.Fraction(now),
	}
}
