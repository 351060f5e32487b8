package queue

import (
	"fmt"
	"strings"

	"github.com/fincast/fincast/internal/config"
	"github.com/fincast/fincast/internal/utils"
)

// NewQueue builds the backend named by the queue configuration. An empty
// type selects NATS. Kafka falls back to the generic URL when no broker
// list is configured.
func NewQueue(cfg config.QueueConfig) (Queue, error) {
	switch utils.QueueType(strings.ToLower(cfg.Type)) {
	case utils.QueueTypeNATS, "":
		return newNATSQueue(cfg.URL)

	case utils.QueueTypeRedis:
		return newRedisQueue(RedisConfig{
			URL:          cfg.URL,
			Password:     cfg.Password,
			DB:           cfg.RedisDB,
			StreamPrefix: cfg.RedisStream,
			Group:        cfg.RedisGroup,
			Consumer:     cfg.RedisConsumer,
		})

	case utils.QueueTypeKafka:
		brokers := cfg.KafkaBrokers
		if len(brokers) == 0 && cfg.URL != "" {
			brokers = []string{cfg.URL}
		}
		return newKafkaQueue(KafkaConfig{
			Brokers: brokers,
			GroupID: cfg.KafkaGroupID,
		})

	case utils.QueueTypeMemory:
		return NewMemoryQueue(), nil
	}

	return nil, fmt.Errorf("unsupported queue type %q (supported: nats, redis, kafka, memory)", cfg.Type)
}
