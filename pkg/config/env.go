package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort        = "PORT"
	EnvMetricsPort = "METRICS_PORT"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"

	EnvAccessToken        = "ACCESS_TOKEN"
	EnvTokenTTL           = "TOKEN_TTL"
	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvEventsBroker        = "EVENTS_BROKER"
	EnvKafkaBrokers        = "KAFKA_BROKERS"
	EnvKafkaTopic          = "KAFKA_TOPIC"
	EnvKafkaMaxAttempts    = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvKafkaBatchTimeout   = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvKafkaCompression    = "KAFKA_PRODUCER_COMPRESSION"
	EnvRabbitMQURL         = "RABBITMQ_URL"
	EnvRabbitMQQueue       = "RABBITMQ_QUEUE"
	EnvEventPublishTimeout = "EVENT_PUBLISH_TIMEOUT"
)
