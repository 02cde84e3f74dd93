package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "deskly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultDesksServiceURL = "http://localhost:8081"

	DefaultSessionTTL = 24 * time.Hour

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Admission locks auto-expire so a crashed request cannot wedge a
	// (desk, date) key; retries are bounded to avoid livelock.
	DefaultAdmissionLockTTL     = 10 * time.Second
	DefaultAdmissionMaxAttempts = 3
	DefaultAdmissionRetryDelay  = 50 * time.Millisecond

	DefaultPaginationLimit = 100
)
