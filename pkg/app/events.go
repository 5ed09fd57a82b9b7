package app

import (
	"fmt"

	"bookcom/pkg/config"
	"bookcom/pkg/events"
)

// NewEventDispatcher connects to the broker named by EVENTS_BROKER.
func NewEventDispatcher(cfg *config.Config, source string) (*events.Dispatcher, error) {
	publisher, err := newPublisher(cfg)
	if err != nil {
		return nil, err
	}
	return events.NewDispatcher(publisher, source, cfg.EventPublishTimeout, cfg.Log), nil
}

func newPublisher(cfg *config.Config) (events.Publisher, error) {
	switch cfg.EventsBroker {
	case config.BrokerKafka:
		publisher, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaTopic,
			MaxAttempts:  cfg.KafkaMaxAttempts,
			BatchTimeout: cfg.KafkaBatchTimeout,
			Compression:  cfg.KafkaCompression,
		}, cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("kafka publisher: %w", err)
		}
		cfg.Log.Info("Publishing events to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
		return publisher, nil

	case config.BrokerRabbitMQ:
		publisher, err := events.NewRabbitMQPublisher(events.RabbitMQConfig{
			URL:   cfg.RabbitMQURL,
			Queue: cfg.RabbitMQQueue,
		})
		if err != nil {
			return nil, fmt.Errorf("rabbitmq publisher: %w", err)
		}
		cfg.Log.Info("Publishing events to RabbitMQ", "queue", cfg.RabbitMQQueue)
		return publisher, nil

	default:
		cfg.Log.Info("Event publishing disabled")
		return events.NewNoop(), nil
	}
}
