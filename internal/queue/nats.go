package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// streamPrefix namespaces the JetStream streams this module provisions.
const streamPrefix = "fincast"

// Durable consumer settings shared by every subscription. Evaluations are
// cheap to redo, so delivery attempts stay bounded.
const (
	natsAckWait       = 30 * time.Second
	natsMaxDeliver    = 3
	natsMaxAckPending = 100
)

// NATSQueue publishes and consumes through NATS JetStream. Each subscribed
// subject gets its own file-backed stream and durable consumer, so
// unacknowledged bundles survive a daemon restart.
type NATSQueue struct {
	conn *nats.Conn
	js   nats.JetStreamContext

	mu   sync.Mutex
	subs map[string]*nats.Subscription
}

func newNATSQueue(url string) (*NATSQueue, error) {
	conn, err := nats.Connect(url, nats.Name(streamPrefix))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open JetStream context: %w", err)
	}

	return &NATSQueue{
		conn: conn,
		js:   js,
		subs: make(map[string]*nats.Subscription),
	}, nil
}

// Publish sends one payload through JetStream without waiting for the ack.
func (q *NATSQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if _, err := q.js.PublishAsync(subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

// PublishBatch queues every message asynchronously, waits for the server to
// acknowledge the batch, and reports how many were accepted.
func (q *NATSQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	futures := make([]nats.PubAckFuture, 0, len(messages))
	for _, msg := range messages {
		f, err := q.js.PublishAsync(msg.Subject, msg.Data)
		if err != nil {
			continue
		}
		futures = append(futures, f)
	}

	select {
	case <-q.js.PublishAsyncComplete():
	case <-ctx.Done():
		return 0, fmt.Errorf("batch publish interrupted: %w", ctx.Err())
	}

	accepted := len(futures)
	for _, f := range futures {
		select {
		case <-f.Err():
			accepted--
		default:
		}
	}
	return accepted, nil
}

// Subscribe provisions a stream for the subject if needed and attaches a
// durable consumer. Handler errors NAK the message for redelivery; clean
// returns ACK it.
func (q *NATSQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.subs[subject]; ok {
		return errAlreadySubscribed(subject)
	}

	if err := q.ensureStream(subject); err != nil {
		return err
	}

	sub, err := q.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("consumer-"+subjectToName(subject)),
		nats.ManualAck(),
		nats.AckWait(natsAckWait),
		nats.MaxDeliver(natsMaxDeliver),
		nats.MaxAckPending(natsMaxAckPending),
		nats.DeliverAll(),
	)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", subject, err)
	}

	q.subs[subject] = sub
	return nil
}

// ensureStream creates the subject's file-backed stream when it does not
// exist yet.
func (q *NATSQueue) ensureStream(subject string) error {
	name := streamPrefix + "-" + subjectToName(subject)
	if _, err := q.js.StreamInfo(name); err == nil {
		return nil
	}

	_, err := q.js.AddStream(&nats.StreamConfig{
		Name:     name,
		Subjects: []string{subject},
		Storage:  nats.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("create stream for %s: %w", subject, err)
	}
	return nil
}

// Unsubscribe drops the subject's durable consumer.
func (q *NATSQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, ok := q.subs[subject]
	if !ok {
		return errNotSubscribed(subject)
	}

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("unsubscribe from %s: %w", subject, err)
	}
	delete(q.subs, subject)
	return nil
}

// Close detaches every subscription and closes the connection.
func (q *NATSQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, sub := range q.subs {
		_ = sub.Unsubscribe()
		delete(q.subs, subject)
	}
	q.conn.Close()
	return nil
}

// subjectToName maps a subject to the character set JetStream allows in
// stream and consumer names.
func subjectToName(subject string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, subject)
}
