package watcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/healthsync/internal/registry"
)

// Reader exposes the minimal kafka.Reader interface needed by the feed.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// ChangeEvent is the wire payload the platform publishes when a category's
// data changes.
type ChangeEvent struct {
	Category  registry.Category `json:"category"`
	ChangedAt time.Time         `json:"changed_at"`
}

// FeedOption configures optional feed behaviour.
type FeedOption func(*Feed)

// WithFeedLogger overrides the logger used to report errors.
func WithFeedLogger(logger *log.Logger) FeedOption {
	return func(f *Feed) {
		f.logger = logger
	}
}

// Feed consumes the platform's change-notification topic and dispatches
// each event to the observers registered for its category. The message is
// committed once every observer has signalled completion, so an uncommitted
// notification is redelivered after a crash mid-dispatch.
type Feed struct {
	reader Reader
	logger *log.Logger

	mu        sync.RWMutex
	nextID    int
	observers map[registry.Category]map[int]func(done func())
}

// NewFeed constructs a Feed over the provided reader.
func NewFeed(reader Reader, opts ...FeedOption) *Feed {
	f := &Feed{
		reader:    reader,
		logger:    log.New(log.Writer(), "[feed] ", log.LstdFlags|log.Lshortfile),
		observers: make(map[registry.Category]map[int]func(done func())),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Observe implements Notifier.
func (f *Feed) Observe(category registry.Category, callback func(done func())) (CancelFunc, error) {
	if !registry.IsKnown(category) {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	if f.observers[category] == nil {
		f.observers[category] = make(map[int]func(done func()))
	}
	f.observers[category][id] = callback

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.observers[category], id)
	}, nil
}

// Run starts a blocking loop that processes change notifications until the
// context is cancelled.
func (f *Feed) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := f.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			f.logger.Printf("fetch error: %v", err)
			continue
		}

		event, decodeErr := decodeChangeEvent(msg)
		if decodeErr != nil {
			f.logger.Printf("decode error (topic=%s, partition=%d, offset=%d): %v", msg.Topic, msg.Partition, msg.Offset, decodeErr)
			decodeErrors.Inc()
			// Commit malformed messages to avoid poison-pill loops.
			if commitErr := f.reader.CommitMessages(ctx, msg); commitErr != nil {
				f.logger.Printf("commit error after decode failure: %v", commitErr)
			}
			continue
		}

		f.dispatch(event)

		if commitErr := f.reader.CommitMessages(ctx, msg); commitErr != nil {
			f.logger.Printf("commit error: %v", commitErr)
		} else {
			eventsDispatched.WithLabelValues(string(event.Category)).Inc()
		}
	}
}

// dispatch invokes every observer for the event's category and waits until
// each has signalled completion exactly once.
func (f *Feed) dispatch(event ChangeEvent) {
	f.mu.RLock()
	callbacks := make([]func(done func()), 0, len(f.observers[event.Category]))
	for _, callback := range f.observers[event.Category] {
		callbacks = append(callbacks, callback)
	}
	f.mu.RUnlock()

	var wg sync.WaitGroup
	for _, callback := range callbacks {
		wg.Add(1)
		var once sync.Once
		callback(func() {
			once.Do(wg.Done)
		})
	}
	wg.Wait()
}

func decodeChangeEvent(msg kafka.Message) (ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return ChangeEvent{}, err
	}
	if !registry.IsKnown(event.Category) {
		return ChangeEvent{}, fmt.Errorf("unknown category %q", event.Category)
	}
	return event, nil
}
