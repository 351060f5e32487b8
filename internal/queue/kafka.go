package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/fincast/fincast/internal/utils"
)

// KafkaConfig configures the Apache Kafka backend.
type KafkaConfig struct {
	Brokers      []string      // broker addresses, required
	GroupID      string        // consumer group, default "fincast-group"
	BatchSize    int           // writer batch size, default 100
	BatchTimeout time.Duration // writer batch linger, default 10ms
	RequiredAcks int           // 0 none, 1 leader, -1 all; default leader
	MaxAttempts  int           // write attempts, default 3
}

// KafkaQueue maps each subject to a Kafka topic, with one lazy writer per
// published topic and one consumer-group reader per subscription.
type KafkaQueue struct {
	cfg KafkaConfig

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	readers map[string]*kafka.Reader
	subs    map[string]context.CancelFunc
}

func newKafkaQueue(cfg KafkaConfig) (*KafkaQueue, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}

	if cfg.GroupID == "" {
		cfg.GroupID = streamPrefix + "-group"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = int(kafka.RequireOne)
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = utils.DefaultMaxRetries
	}

	return &KafkaQueue{
		cfg:     cfg,
		writers: make(map[string]*kafka.Writer),
		readers: make(map[string]*kafka.Reader),
		subs:    make(map[string]context.CancelFunc),
	}, nil
}

// writer returns the topic's writer, creating it on first use.
func (q *KafkaQueue) writer(topic string) *kafka.Writer {
	q.mu.Lock()
	defer q.mu.Unlock()

	if w, ok := q.writers[topic]; ok {
		return w
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(q.cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    q.cfg.BatchSize,
		BatchTimeout: q.cfg.BatchTimeout,
		RequiredAcks: kafka.RequiredAcks(q.cfg.RequiredAcks),
		MaxAttempts:  q.cfg.MaxAttempts,
	}
	q.writers[topic] = w
	return w
}

// Publish writes one payload to the subject's topic.
func (q *KafkaQueue) Publish(ctx context.Context, subject string, data []byte) error {
	msg := kafka.Message{Value: data, Time: time.Now()}
	if err := q.writer(subject).WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

// PublishBatch groups the payloads by topic and writes each group in one
// call. The count covers every message of each topic that wrote cleanly.
func (q *KafkaQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	byTopic := make(map[string][]kafka.Message)
	for _, msg := range messages {
		byTopic[msg.Subject] = append(byTopic[msg.Subject], kafka.Message{
			Value: msg.Data,
			Time:  time.Now(),
		})
	}

	accepted := 0
	var lastErr error
	for topic, batch := range byTopic {
		if err := q.writer(topic).WriteMessages(ctx, batch...); err != nil {
			lastErr = err
			continue
		}
		accepted += len(batch)
	}

	if accepted == 0 && lastErr != nil {
		return 0, fmt.Errorf("batch publish: %w", lastErr)
	}
	return accepted, nil
}

// Subscribe starts a consumer-group reader for the subject's topic.
// Offsets are committed only after the handler returns cleanly, so failed
// bundles are fetched again.
func (q *KafkaQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.subs[subject]; ok {
		return errAlreadySubscribed(subject)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  q.cfg.Brokers,
		GroupID:  q.cfg.GroupID,
		Topic:    subject,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	q.readers[subject] = reader
	q.subs[subject] = cancel

	go q.consume(ctx, reader, handler)
	return nil
}

// consume fetches messages until the context ends, committing offsets for
// handled messages with a bounded retry.
func (q *KafkaQueue) consume(ctx context.Context, reader *kafka.Reader, handler MessageHandler) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}

		if err := handler(msg.Value); err != nil {
			continue
		}

		for attempt := 0; attempt < utils.DefaultMaxRetries; attempt++ {
			if err := reader.CommitMessages(ctx, msg); err == nil {
				break
			}
			if ctx.Err() != nil {
				return
			}
			time.Sleep(utils.DefaultRetryBackoff)
		}
	}
}

// Unsubscribe stops the subject's reader.
func (q *KafkaQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, ok := q.subs[subject]
	if !ok {
		return errNotSubscribed(subject)
	}

	cancel()
	if reader, ok := q.readers[subject]; ok {
		_ = reader.Close()
		delete(q.readers, subject)
	}
	delete(q.subs, subject)
	return nil
}

// Close stops every reader and flushes every writer.
func (q *KafkaQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	var lastErr error
	for subject, cancel := range q.subs {
		cancel()
		if reader, ok := q.readers[subject]; ok {
			if err := reader.Close(); err != nil {
				lastErr = err
			}
			delete(q.readers, subject)
		}
		delete(q.subs, subject)
	}

	for topic, w := range q.writers {
		if err := w.Close(); err != nil {
			lastErr = err
		}
		delete(q.writers, topic)
	}
	return lastErr
}
