package events

import (
	"context"
	"errors"
	"time"

	"bookcom/pkg/logger"
	"bookcom/pkg/metrics"
)

var (
	ErrPublisherClosed = errors.New("publisher is closed")
	ErrEmptyKey        = errors.New("event key cannot be empty")
	ErrEmptyType       = errors.New("event type cannot be empty")
)

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type noopPublisher struct{}

// NewNoop returns a publisher that drops every event.
func NewNoop() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error { return nil }
func (noopPublisher) Close() error                         { return nil }

func validate(event Event) error {
	if event.Type == "" {
		return ErrEmptyType
	}
	if event.Key == "" {
		return ErrEmptyKey
	}
	return nil
}

// Dispatcher publishes events on behalf of services. Publishing is best
// effort: a failed publish is logged and counted, never returned.
type Dispatcher struct {
	publisher Publisher
	source    string
	timeout   time.Duration
	log       *logger.Logger
}

func NewDispatcher(publisher Publisher, source string, timeout time.Duration, log *logger.Logger) *Dispatcher {
	if publisher == nil {
		publisher = NewNoop()
	}
	return &Dispatcher{
		publisher: publisher,
		source:    source,
		timeout:   timeout,
		log:       log,
	}
}

func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if event.Source == "" {
		event.Source = d.source
	}

	// The write is already committed; a client disconnect must not drop the event.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, event); err != nil {
		metrics.IncEventPublished(event.Type, false)
		d.log.Error("Failed to publish event",
			"event_id", event.ID,
			"event_type", event.Type,
			"key", event.Key,
			"error", err,
		)
		return
	}

	metrics.IncEventPublished(event.Type, true)
	d.log.Debug("Event published", "event_id", event.ID, "event_type", event.Type, "key", event.Key)
}

func (d *Dispatcher) Close() error {
	return d.publisher.Close()
}
