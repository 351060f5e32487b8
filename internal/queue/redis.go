package queue

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisBlockInterval bounds how long one XREADGROUP call waits for new
// entries before the consumer loop re-checks its context.
const redisBlockInterval = 5 * time.Second

// RedisConfig configures the Redis Streams backend.
type RedisConfig struct {
	URL          string // redis://host:port/db or a bare address
	Password     string
	DB           int
	StreamPrefix string // stream name prefix, default "fincast"
	Group        string // consumer group, default "fincast-group"
	Consumer     string // consumer name within the group, default hostname
}

// RedisQueue maps each subject to a Redis stream and reads through a
// consumer group, so parallel daemons share the inbound bundle load and
// unacknowledged entries are redelivered.
type RedisQueue struct {
	client *redis.Client
	cfg    RedisConfig

	mu   sync.Mutex
	subs map[string]context.CancelFunc
}

func newRedisQueue(cfg RedisConfig) (*RedisQueue, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// Bare host:port addresses are accepted too.
		opts = &redis.Options{Addr: cfg.URL, Password: cfg.Password, DB: cfg.DB}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to Redis at %s: %w", cfg.URL, err)
	}

	if cfg.StreamPrefix == "" {
		cfg.StreamPrefix = streamPrefix
	}
	if cfg.Group == "" {
		cfg.Group = streamPrefix + "-group"
	}
	if cfg.Consumer == "" {
		if host, err := os.Hostname(); err == nil && host != "" {
			cfg.Consumer = host
		} else {
			cfg.Consumer = "consumer-1"
		}
	}

	return &RedisQueue{
		client: client,
		cfg:    cfg,
		subs:   make(map[string]context.CancelFunc),
	}, nil
}

func (q *RedisQueue) stream(subject string) string {
	return q.cfg.StreamPrefix + ":" + subject
}

// Publish appends the payload to the subject's stream.
func (q *RedisQueue) Publish(ctx context.Context, subject string, data []byte) error {
	err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream(subject),
		Values: map[string]interface{}{"data": data},
	}).Err()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

// PublishBatch appends every payload through one pipeline round trip and
// reports how many XADD commands succeeded.
func (q *RedisQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	pipe := q.client.Pipeline()
	for _, msg := range messages {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: q.stream(msg.Subject),
			Values: map[string]interface{}{"data": msg.Data},
		})
	}

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("batch publish: %w", err)
	}

	accepted := 0
	for _, cmd := range cmds {
		if cmd.Err() == nil {
			accepted++
		}
	}
	return accepted, nil
}

// Subscribe creates the subject's consumer group if needed and starts a
// reader goroutine. Handled entries are acknowledged; handler failures
// leave them pending for redelivery.
func (q *RedisQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.subs[subject]; ok {
		return errAlreadySubscribed(subject)
	}

	stream := q.stream(subject)
	if err := q.ensureGroup(stream); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go q.consume(ctx, stream, handler)

	q.subs[subject] = cancel
	return nil
}

// ensureGroup creates the consumer group at the stream head, tolerating the
// group already existing.
func (q *RedisQueue) ensureGroup(stream string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := q.client.XGroupCreateMkStream(ctx, stream, q.cfg.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group on %s: %w", stream, err)
	}
	return nil
}

// consume reads stream entries for this consumer until the context ends.
func (q *RedisQueue) consume(ctx context.Context, stream string, handler MessageHandler) {
	for ctx.Err() == nil {
		results, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.cfg.Group,
			Consumer: q.cfg.Consumer,
			Streams:  []string{stream, ">"},
			Count:    100,
			Block:    redisBlockInterval,
		}).Result()
		if err != nil {
			// redis.Nil is a plain read timeout; anything else gets the
			// same treatment: back off into the next blocking read.
			continue
		}

		for _, res := range results {
			for _, entry := range res.Messages {
				data, ok := entry.Values["data"].(string)
				if !ok {
					// Malformed entry; ack it away rather than loop on it.
					q.client.XAck(ctx, stream, q.cfg.Group, entry.ID)
					continue
				}

				if err := handler([]byte(data)); err != nil {
					continue
				}
				q.client.XAck(ctx, stream, q.cfg.Group, entry.ID)
			}
		}
	}
}

// Unsubscribe stops the subject's reader goroutine.
func (q *RedisQueue) Unsubscribe(subject string) error {
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

// Close stops every reader and closes the client.
func (q *RedisQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, cancel := range q.subs {
		cancel()
		delete(q.subs, subject)
	}
	return q.client.Close()
}
