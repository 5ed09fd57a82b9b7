package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bookcom/pkg/client"
	"bookcom/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port        string
	MetricsPort string

	AccessTokenSecret  string
	TokenTTL           time.Duration
	CORSAllowedOrigins []string

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	EventsBroker        string
	KafkaBrokers        []string
	KafkaTopic          string
	KafkaMaxAttempts    int
	KafkaBatchTimeout   time.Duration
	KafkaCompression    string
	RabbitMQURL         string
	RabbitMQQueue       string
	EventPublishTimeout time.Duration

	// SessionRequired is false for jobs that never issue or verify tokens.
	SessionRequired bool

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the API configuration. ACCESS_TOKEN must be set.
func Load(serviceName string) *Config {
	return load(serviceName, true)
}

// LoadJob reads the configuration for one-shot jobs such as migrations.
func LoadJob(jobName string) *Config {
	return load(jobName, false)
}

func load(serviceName string, sessionRequired bool) *Config {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port:        getEnvStr(EnvPort, DefaultPort),
		MetricsPort: getEnvStr(EnvMetricsPort, DefaultMetricsPort),

		AccessTokenSecret:  os.Getenv(EnvAccessToken),
		TokenTTL:           getEnvDuration(EnvTokenTTL, DefaultTokenTTL),
		CORSAllowedOrigins: getEnvList(EnvCORSAllowedOrigins, DefaultCORSAllowedOrigins),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		RedisAddr:     getEnvStr(EnvRedisAddr, ""),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		EventsBroker:        strings.ToLower(getEnvStr(EnvEventsBroker, DefaultEventsBroker)),
		KafkaBrokers:        getEnvList(EnvKafkaBrokers, []string{DefaultKafkaBrokers}),
		KafkaTopic:          getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),
		KafkaMaxAttempts:    getEnvNum(EnvKafkaMaxAttempts, DefaultKafkaMaxAttempts),
		KafkaBatchTimeout:   getEnvDuration(EnvKafkaBatchTimeout, DefaultKafkaBatchTimeout),
		KafkaCompression:    getEnvStr(EnvKafkaCompression, DefaultKafkaCompression),
		RabbitMQURL:         getEnvStr(EnvRabbitMQURL, DefaultRabbitMQURL),
		RabbitMQQueue:       getEnvStr(EnvRabbitMQQueue, DefaultRabbitMQQueue),
		EventPublishTimeout: getEnvDuration(EnvEventPublishTimeout, DefaultEventPublishTimeout),

		SessionRequired: sessionRequired,

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    getEnvStr(EnvLogFormat, DefaultLogFormat),
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects to Redis only when REDIS_ADDR is configured.
func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}
	if cfg.MetricsPort != "" && cfg.MetricsPort != "0" {
		if port, err := strconv.Atoi(cfg.MetricsPort); err != nil || port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("MetricsPort must be between 1 and 65535 or 0, got: %s", cfg.MetricsPort))
		} else if cfg.MetricsPort == cfg.Port {
			errors = append(errors, "MetricsPort must differ from Port")
		}
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.SessionRequired && cfg.AccessTokenSecret == "" {
		errors = append(errors, fmt.Sprintf("%s must be set to sign session tokens", EnvAccessToken))
	}
	if cfg.SessionRequired && len(cfg.CORSAllowedOrigins) == 0 {
		errors = append(errors, "CORSAllowedOrigins cannot be empty")
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"TokenTTL", cfg.TokenTTL},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"EventPublishTimeout", cfg.EventPublishTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	switch cfg.EventsBroker {
	case BrokerNone:
	case BrokerKafka:
		if len(cfg.KafkaBrokers) == 0 {
			errors = append(errors, "KafkaBrokers cannot be empty when EventsBroker is kafka")
		}
		if cfg.KafkaTopic == "" {
			errors = append(errors, "KafkaTopic cannot be empty when EventsBroker is kafka")
		}
	case BrokerRabbitMQ:
		if cfg.RabbitMQURL == "" || cfg.RabbitMQQueue == "" {
			errors = append(errors, "RabbitMQURL and RabbitMQQueue are required when EventsBroker is rabbitmq")
		}
	default:
		errors = append(errors, fmt.Sprintf("EventsBroker must be one of none, kafka, rabbitmq, got: %s", cfg.EventsBroker))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"metrics_port", cfg.MetricsPort,
		"access_token_set", cfg.AccessTokenSecret != "",
		"token_ttl", cfg.TokenTTL,
		"cors_allowed_origins", cfg.CORSAllowedOrigins,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"redis_enabled", cfg.RedisAddr != "",
		"events_broker", cfg.EventsBroker,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:@/]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}
