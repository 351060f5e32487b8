package utils

import "time"

// Operation deadlines. Every unit of work is bounded so one stalled
// dependency cannot wedge a worker.
const (
	EvaluationTimeout = 30 * time.Second // one alert evaluation run
	ForecastTimeout   = 30 * time.Second // one forecast computation
	PublishTimeout    = 10 * time.Second // queue publish of one result set
	ShutdownTimeout   = 2 * time.Second  // drain grace after a shutdown signal
)

// Retry policy shared by the queue backends and the notifier.
const (
	DefaultMaxRetries   = 3
	DefaultRetryBackoff = 100 * time.Millisecond // doubles per attempt
	MaxRetryBackoff     = 5 * time.Second        // backoff growth cap
)

// QueueType identifies a message queue backend.
type QueueType string

const (
	QueueTypeNATS   QueueType = "nats"   // NATS JetStream, the default
	QueueTypeRedis  QueueType = "redis"  // Redis Streams
	QueueTypeKafka  QueueType = "kafka"  // Apache Kafka
	QueueTypeMemory QueueType = "memory" // in-process, for tests and local dev
)
