// Package watcher reacts to externally-triggered change notifications while
// the app is not in the foreground. Platform callbacks land on an arbitrary
// concurrency context; the watcher decouples them from the orchestrator by
// funnelling every notification through a channel consumed by a single task.
package watcher

import (
	"context"
	"log"
	"sync"

	"example.com/healthsync/internal/platform"
	"example.com/healthsync/internal/registry"
)

// eventBuffer bounds in-flight notifications. Overflow events are dropped:
// each incremental sync widens to "now" anyway, so a dropped notification is
// covered by the one already queued.
const eventBuffer = 64

// State is the watcher's lifecycle state.
type State string

const (
	StateInactive State = "inactive"
	StateActive   State = "active"
)

// SyncTrigger is the orchestrator surface the watcher drives.
type SyncTrigger interface {
	IncrementalSync(ctx context.Context, scope ...registry.Category) error
}

// CancelFunc unregisters one observer.
type CancelFunc func()

// Notifier delivers per-category change callbacks. The callback receives a
// completion signal that must be invoked exactly once per delivery.
type Notifier interface {
	Observe(category registry.Category, callback func(done func())) (CancelFunc, error)
}

// Option configures optional watcher behaviour.
type Option func(*Watcher)

// WithLogger overrides the watcher's logger.
func WithLogger(logger *log.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// Watcher registers change observers and turns notifications into scoped
// incremental syncs.
type Watcher struct {
	client   platform.Client
	notifier Notifier
	trigger  SyncTrigger
	logger   *log.Logger

	mu      sync.Mutex
	state   State
	scope   []registry.Category
	cancels map[registry.Category]CancelFunc
	queue   *eventQueue
	drained chan struct{}
}

// eventQueue carries notifications from observer callbacks to the consumer
// task. The closed flag is checked under the same lock as the send: a
// dispatch snapshotted before teardown may still invoke its callback after
// Stop, and that late delivery must discard, not send on a closed channel.
type eventQueue struct {
	mu     sync.Mutex
	closed bool
	ch     chan registry.Category
}

func newEventQueue(size int) *eventQueue {
	return &eventQueue{ch: make(chan registry.Category, size)}
}

// enqueue attempts a non-blocking send and reports (queued, closed).
func (q *eventQueue) enqueue(category registry.Category) (bool, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false, true
	}
	select {
	case q.ch <- category:
		return true, false
	default:
		return false, false
	}
}

func (q *eventQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}

// New constructs an inactive Watcher.
func New(client platform.Client, notifier Notifier, trigger SyncTrigger, opts ...Option) *Watcher {
	w := &Watcher{
		client:   client,
		notifier: notifier,
		trigger:  trigger,
		logger:   log.New(log.Writer(), "[watcher] ", log.LstdFlags),
		state:    StateInactive,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State reports the current lifecycle state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start enables change delivery and registers one observer per category in
// scope. Calling Start while active is a logged no-op: app-lifecycle events
// invoke it redundantly. Per-category enablement failures are tolerated and
// logged without aborting the remaining categories.
func (w *Watcher) Start(ctx context.Context, scope ...registry.Category) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateActive {
		w.logger.Printf("start ignored: watcher already active")
		return nil
	}

	if len(scope) == 0 {
		scope = registry.ReadableCategories()
	}

	w.queue = newEventQueue(eventBuffer)
	w.drained = make(chan struct{})
	w.cancels = make(map[registry.Category]CancelFunc, len(scope))
	w.scope = append([]registry.Category(nil), scope...)

	for _, category := range scope {
		if err := w.client.EnableChangeDelivery(ctx, category); err != nil {
			w.logger.Printf("enable delivery for %s failed: %v", category, err)
		}

		cancel, err := w.notifier.Observe(category, w.changeCallback(category, w.queue))
		if err != nil {
			w.logger.Printf("observe %s failed: %v", category, err)
			continue
		}
		w.cancels[category] = cancel
	}

	go w.consume(ctx, w.queue, w.drained)
	w.state = StateActive
	return nil
}

// Stop unregisters every observer and best-effort disables delivery. Disable
// failures are logged, not surfaced; the watcher is being torn down anyway.
func (w *Watcher) Stop(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateInactive {
		w.logger.Printf("stop ignored: watcher not active")
		return
	}

	for category, cancel := range w.cancels {
		cancel()
		delete(w.cancels, category)
	}

	w.queue.close()
	<-w.drained

	for _, category := range w.scope {
		if err := w.client.DisableChangeDelivery(ctx, category); err != nil {
			w.logger.Printf("disable delivery for %s failed: %v", category, err)
		}
	}
	w.scope = nil
	w.state = StateInactive
}

// changeCallback builds the per-category observer callback. The completion
// signal fires exactly once per invocation via defer, whether the event was
// queued, dropped, or delivered after teardown.
func (w *Watcher) changeCallback(category registry.Category, queue *eventQueue) func(done func()) {
	return func(done func()) {
		defer done()
		queued, closed := queue.enqueue(category)
		switch {
		case closed:
			w.logger.Printf("watcher stopped, discarding %s notification", category)
		case queued:
			eventsQueued.WithLabelValues(string(category)).Inc()
		default:
			w.logger.Printf("event buffer full, dropping %s notification", category)
			eventsDropped.WithLabelValues(string(category)).Inc()
		}
	}
}

// consume drains the event queue and drives the orchestrator. A sync
// already in progress rejects the request; that is expected and only logged.
func (w *Watcher) consume(ctx context.Context, queue *eventQueue, drained chan<- struct{}) {
	defer close(drained)
	for category := range queue.ch {
		if err := w.trigger.IncrementalSync(ctx, category); err != nil {
			w.logger.Printf("notification-triggered sync for %s: %v", category, err)
		}
	}
}
