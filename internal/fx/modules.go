// Package fx группирует конструкторы приложения в модули fx.
package fx

import (
	"context"
	"log/slog"
	"net/http"

	"go.uber.org/fx"

	"github.com/gometeo/tripview/internal/config"
	"github.com/gometeo/tripview/internal/events"
	"github.com/gometeo/tripview/internal/generation"
	"github.com/gometeo/tripview/internal/logging"
	"github.com/gometeo/tripview/internal/photos"
	"github.com/gometeo/tripview/internal/search"
	"github.com/gometeo/tripview/internal/weather"
)

// ConfigModule предоставляет конфигурацию из окружения
var ConfigModule = fx.Module("config",
	fx.Provide(NewConfig),
)

// LoggerModule предоставляет логгер
var LoggerModule = fx.Module("logger",
	fx.Provide(logging.New),
)

// ClientsModule предоставляет клиенты API погоды и фото
var ClientsModule = fx.Module("clients",
	fx.Provide(
		NewHTTPClient,
		NewWeatherClient,
		NewPhotoClient,
	),
)

// GenerationModule предоставляет трекер поколений поиска
var GenerationModule = fx.Module("generation",
	fx.Provide(NewTracker),
)

// EventsModule предоставляет публикатор событий поиска
var EventsModule = fx.Module("events",
	fx.Provide(NewPublisher),
)

// SearchModule предоставляет оркестратор
var SearchModule = fx.Module("search",
	fx.Provide(NewOrchestrator),
)

// NewConfig загружает и проверяет конфигурацию
func NewConfig() (config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func NewHTTPClient(cfg config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTPClientTimeout}
}

func NewWeatherClient(cfg config.Config, hc *http.Client, logger *slog.Logger) *weather.Client {
	return weather.NewClient(cfg.OpenWeatherAPIKey, logger,
		weather.WithBaseURL(cfg.WeatherBaseURL),
		weather.WithHTTPClient(hc))
}

func NewPhotoClient(cfg config.Config, hc *http.Client, logger *slog.Logger) *photos.Client {
	return photos.NewClient(cfg.UnsplashAccessKey, logger,
		photos.WithBaseURL(cfg.PhotosBaseURL),
		photos.WithHTTPClient(hc))
}

// TrackerResult отдает трекер и, если есть, его Redis для health check
type TrackerResult struct {
	fx.Out
	Tracker generation.Tracker
	Redis   *generation.Redis
}

// NewTracker использует Redis, если задан REDIS_ADDR, иначе трекер в памяти
func NewTracker(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (TrackerResult, error) {
	if cfg.RedisAddr == "" {
		logger.Info("Трекер поколений инициализирован", "backend", "memory")
		return TrackerResult{Tracker: generation.NewMemory()}, nil
	}

	r, err := generation.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.GenerationTTL, logger)
	if err != nil {
		return TrackerResult{}, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return r.Close() },
	})
	logger.Info("Трекер поколений инициализирован", "backend", "redis", "addr", cfg.RedisAddr)
	return TrackerResult{Tracker: r, Redis: r}, nil
}

// NewPublisher пишет в Kafka, если задан KAFKA_BROKERS, иначе отбрасывает события
func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (events.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("События поиска отключены")
		return events.Nop{}, nil
	}

	p, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return p.Close() },
	})
	logger.Info("События поиска включены", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return p, nil
}

func NewOrchestrator(w *weather.Client, p *photos.Client, gens generation.Tracker, pub events.Publisher, logger *slog.Logger) *search.Orchestrator {
	return search.NewOrchestrator(w, p, gens, pub, logger)
}
