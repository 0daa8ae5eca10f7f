package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/joho/godotenv"

	"github.com/gometeo/tripview/internal/config"
	"github.com/gometeo/tripview/internal/events"
	"github.com/gometeo/tripview/internal/logging"
)

const topDestinations = 10

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg)
	logger.Info("Запуск агрегатора поисков...")

	if len(cfg.KafkaBrokers) == 0 {
		logger.Error("KAFKA_BROKERS не задан")
		os.Exit(1)
	}

	saramaCfg := sarama.NewConfig()
	saramaCfg.Consumer.Return.Errors = true
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumer, err := connect(cfg, saramaCfg, logger)
	if err != nil {
		logger.Error("Ошибка создания Kafka consumer", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	tally := events.NewTally()
	handler := events.NewConsumerHandler(tally, logger)

	wg := &sync.WaitGroup{}
	wg.Add(2)

	go func() {
		defer wg.Done()
		for {
			if err := consumer.Consume(ctx, []string{cfg.KafkaTopic}, handler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				logger.Error("Ошибка при чтении Kafka", "error", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for {
			select {
			case err, ok := <-consumer.Errors():
				if !ok {
					return
				}
				logger.Warn("Ошибка Kafka consumer", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Остановка агрегатора...")
	cancel()
	wg.Wait()
	if err := consumer.Close(); err != nil {
		logger.Error("Ошибка при закрытии consumer", "error", err)
	}

	for i, d := range tally.Top(topDestinations) {
		logger.Info("Популярное направление",
			"rank", i+1,
			"city", d.City,
			"searches", d.Searches,
			"successes", d.Successes)
	}
}

// connect повторяет попытки, пока брокеры поднимаются.
func connect(cfg config.Config, saramaCfg *sarama.Config, logger *slog.Logger) (sarama.ConsumerGroup, error) {
	const maxRetries = 5

	var (
		consumer sarama.ConsumerGroup
		err      error
	)
	for i := 0; i < maxRetries; i++ {
		consumer, err = sarama.NewConsumerGroup(cfg.KafkaBrokers, cfg.KafkaGroup, saramaCfg)
		if err == nil {
			logger.Info("Успешное подключение к Kafka", "brokers", cfg.KafkaBrokers, "group", cfg.KafkaGroup)
			return consumer, nil
		}
		logger.Warn("Kafka недоступна. Повторная попытка через 3с...",
			"attempt", i+1, "of", maxRetries, "error", err)
		time.Sleep(3 * time.Second)
	}
	return nil, err
}
