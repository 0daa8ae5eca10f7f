package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/gometeo/tripview/internal/model"
)

// Publisher сообщает о завершенных поисках.
type Publisher interface {
	Publish(ctx context.Context, ev model.SearchEvent) error
	Close() error
}

// Nop используется, когда брокер не настроен.
type Nop struct{}

func (Nop) Publish(context.Context, model.SearchEvent) error { return nil }
func (Nop) Close() error                                     { return nil }

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewKafkaPublisher подключает синхронный producer к брокерам.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	// ждать подтверждения от Kafka, что событие записано
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к Kafka: %w", err)
	}
	return NewPublisher(producer, topic, logger), nil
}

func NewPublisher(producer sarama.SyncProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

func (p *KafkaPublisher) Publish(_ context.Context, ev model.SearchEvent) error {
	bytes, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("ошибка сериализации: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.City),
		Value: sarama.ByteEncoder(bytes),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("не удалось отправить событие поиска: %w", err)
	}

	p.logger.Debug("Событие поиска отправлено",
		"city", ev.City,
		"state", ev.State,
		"partition", partition,
		"offset", offset)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
