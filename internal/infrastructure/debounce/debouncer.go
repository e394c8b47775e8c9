package debounce

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultWindow is how long the debouncer waits after the last event for a
// key before firing.
const DefaultWindow = 2 * time.Second

// handlerTimeout bounds one debounced handler run.
const handlerTimeout = 30 * time.Second

// Handler processes a coalesced webhook event after the quiet window elapses.
type Handler func(ctx context.Context, storeID, entityID int64) error

type pending struct {
	timer *time.Timer
}

// Debouncer coalesces bursts of webhook deliveries for the same entity into a
// single handler invocation. Scheduling is last-write-wins per key: a new
// event for a pending key cancels the previous timer and restarts the window.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]*pending
	logger  zerolog.Logger

	wg     sync.WaitGroup
	closed bool
}

// NewDebouncer creates a debouncer with the given quiet window. A
// non-positive window falls back to DefaultWindow.
func NewDebouncer(window time.Duration, logger zerolog.Logger) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		window:  window,
		entries: make(map[string]*pending),
		logger:  logger,
	}
}

func key(topic string, storeID, entityID int64) string {
	return fmt.Sprintf("%s:%d:%d", topic, storeID, entityID)
}

// Schedule queues a handler run for (storeID, entityID) under the given
// topic. If a run is already pending for the same key its timer is reset, so
// only the last event in a burst fires. Handler errors are logged, never
// propagated: webhook processing must not fail the delivery.
func (d *Debouncer) Schedule(topic string, storeID, entityID int64, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn().
			Str("topic", topic).
			Int64("store_id", storeID).
			Int64("entity_id", entityID).
			Msg("Debouncer closed, dropping event")
		return
	}

	k := key(topic, storeID, entityID)

	if prev, ok := d.entries[k]; !ok {
		d.wg.Add(1)
	} else if !prev.timer.Stop() {
		// The previous timer already fired; its callback still owns that
		// WaitGroup slot and will release it, so this entry needs its own.
		d.wg.Add(1)
	}

	entry := &pending{}
	entry.timer = time.AfterFunc(d.window, func() {
		defer d.wg.Done()

		d.mu.Lock()
		// A fired-but-not-yet-run callback can race a reschedule; only
		// remove the entry if it is still ours.
		if cur, ok := d.entries[k]; ok && cur == entry {
			delete(d.entries, k)
		}
		d.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		if err := handler(ctx, storeID, entityID); err != nil {
			d.logger.Error().
				Err(err).
				Str("topic", topic).
				Int64("store_id", storeID).
				Int64("entity_id", entityID).
				Msg("Debounced handler failed")
			return
		}

		d.logger.Debug().
			Str("topic", topic).
			Int64("store_id", storeID).
			Int64("entity_id", entityID).
			Msg("Debounced handler completed")
	})

	d.entries[k] = entry
}

// PendingCount reports how many keys are waiting to fire.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// Shutdown cancels all pending timers and waits for in-flight handlers to
// finish or the context to expire.
func (d *Debouncer) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	for k, entry := range d.entries {
		if entry.timer.Stop() {
			d.wg.Done()
		}
		delete(d.entries, k)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
