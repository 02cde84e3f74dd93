package kafka_config

import "time"

const (
	DefaultKafkaBrokers = "localhost:9092"

	DefaultEventsTopic    = "reservation-events"
	DefaultEventsDLQTopic = "reservation-events-dlq"
	DefaultAuditGroupID   = "reservation-audit"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // all replicas
	DefaultProducerCompression  = "snappy"

	DefaultConsumerStartOffset    = -2 // oldest
	DefaultConsumerMinBytes       = 1
	DefaultConsumerMaxBytes       = 10 * 1024 * 1024
	DefaultConsumerMaxWait        = 500 * time.Millisecond
	DefaultConsumerCommitInterval = 1 * time.Second
	DefaultConsumerMaxRetries     = 3
)
