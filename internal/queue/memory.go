package queue

import (
	"context"
	"fmt"
	"sync"
)

// memoryBufferSize is the per-subject backlog before publishes fail.
const memoryBufferSize = 10000

// MemoryQueue is the in-process backend used by tests and local
// development. Each subject is a buffered channel; published payloads sit
// in the buffer until a subscriber drains them, which also lets tests
// assert on pending counts without a subscriber.
type MemoryQueue struct {
	mu     sync.Mutex
	topics map[string]chan []byte
	subs   map[string]context.CancelFunc
}

// NewMemoryQueue creates an empty in-memory queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		topics: make(map[string]chan []byte),
		subs:   make(map[string]context.CancelFunc),
	}
}

func (q *MemoryQueue) topic(subject string) chan []byte {
	q.mu.Lock()
	defer q.mu.Unlock()

	ch, ok := q.topics[subject]
	if !ok {
		ch = make(chan []byte, memoryBufferSize)
		q.topics[subject] = ch
	}
	return ch
}

// Publish buffers a copy of the payload on the subject's channel. A full
// buffer fails rather than blocks.
func (q *MemoryQueue) Publish(ctx context.Context, subject string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	select {
	case q.topic(subject) <- buf:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("subject %q backlog full", subject)
	}
}

// PublishBatch buffers each payload in turn, counting the ones that fit.
func (q *MemoryQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	accepted := 0
	for _, msg := range messages {
		if err := q.Publish(ctx, msg.Subject, msg.Data); err != nil {
			continue
		}
		accepted++
	}
	return accepted, nil
}

// Subscribe drains the subject's buffer into the handler from a goroutine.
// Handler errors are swallowed; the in-memory backend does not redeliver.
func (q *MemoryQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	if _, ok := q.subs[subject]; ok {
		q.mu.Unlock()
		return errAlreadySubscribed(subject)
	}
	ctx, cancel := context.WithCancel(context.Background())
	q.subs[subject] = cancel
	q.mu.Unlock()

	ch := q.topic(subject)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case data, ok := <-ch:
				if !ok {
					return
				}
				_ = handler(data)
			}
		}
	}()
	return nil
}

// Unsubscribe stops the subject's drain goroutine. Buffered payloads stay
// queued for a later subscriber.
func (q *MemoryQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, ok := q.subs[subject]
	if !ok {
		return errNotSubscribed(subject)
	}

	cancel()
	delete(q.subs, subject)
	return nil
}

// Close stops all drains and discards every buffer.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, cancel := range q.subs {
		cancel()
		delete(q.subs, subject)
	}
	for subject, ch := range q.topics {
		close(ch)
		delete(q.topics, subject)
	}
	return nil
}

// Pending reports how many payloads are buffered for a subject. Test
// assertions use this to verify what a publish round left behind.
func (q *MemoryQueue) Pending(subject string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if ch, ok := q.topics[subject]; ok {
		return len(ch)
	}
	return 0
}
