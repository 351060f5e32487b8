// Package queue is the dispatch plane for evaluation results: bundle
// documents arrive on an inbound subject, and finished alerts, summaries
// and forecasts leave on per-severity and per-method subjects. Four
// interchangeable backends implement the same contract: NATS JetStream
// (default), Redis Streams, Apache Kafka, and an in-memory queue for tests
// and local development.
package queue

import (
	"context"
	"fmt"
)

// BatchMessage is one subject/payload pair in a batch publish.
type BatchMessage struct {
	Subject string
	Data    []byte
}

// Publisher sends payloads to named subjects.
type Publisher interface {
	// Publish sends one payload to a subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishBatch sends several payloads, possibly to different subjects,
	// and reports how many were accepted. Partial success is not an error
	// unless nothing was accepted.
	PublishBatch(ctx context.Context, messages []BatchMessage) (int, error)

	// Close releases the backend connection.
	Close() error
}

// MessageHandler consumes one inbound payload. A non-nil error leaves the
// message unacknowledged so the backend redelivers it.
type MessageHandler func(data []byte) error

// Subscriber attaches handlers to subjects.
type Subscriber interface {
	// Subscribe registers a handler for a subject. At most one
	// subscription per subject is allowed.
	Subscribe(subject string, handler MessageHandler) error

	// Unsubscribe detaches the handler registered for a subject.
	Unsubscribe(subject string) error

	// Close releases the backend connection.
	Close() error
}

// Queue is a backend that can both publish and subscribe.
type Queue interface {
	Publisher
	Subscriber
}

func errAlreadySubscribed(subject string) error {
	return fmt.Errorf("already subscribed to subject %q", subject)
}

func errNotSubscribed(subject string) error {
	return fmt.Errorf("no subscription for subject %q", subject)
}
