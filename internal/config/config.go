package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	DefaultPhotosBaseURL  = "https://api.unsplash.com/search/photos"
)

type Config struct {
	Env      string
	HTTPPort string
	LogLevel string

	OpenWeatherAPIKey string
	UnsplashAccessKey string
	WeatherBaseURL    string
	PhotosBaseURL     string
	// HTTPClientTimeout = 0: исходящие вызовы ограничены только контекстом
	// запроса.
	HTTPClientTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	GenerationTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string
}

func Load() Config {
	return Config{
		Env:      getEnv("ENV", "development"),
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		UnsplashAccessKey: os.Getenv("UNSPLASH_ACCESS_KEY"),
		WeatherBaseURL:    getEnv("WEATHER_BASE_URL", DefaultWeatherBaseURL),
		PhotosBaseURL:     getEnv("PHOTOS_BASE_URL", DefaultPhotosBaseURL),
		HTTPClientTimeout: getEnvDuration("HTTP_CLIENT_TIMEOUT", 0),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		GenerationTTL: getEnvDuration("GENERATION_TTL", time.Hour),

		KafkaBrokers: getEnvSlice("KAFKA_BROKERS", nil),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "tripview_searches"),
		KafkaGroup:   getEnv("KAFKA_GROUP", "tripview_aggregator_group"),
	}
}

// Validate сообщает, какие ключи оператор еще должен задать.
func (c Config) Validate() error {
	var errs []error
	if c.OpenWeatherAPIKey == "" {
		errs = append(errs, errors.New("OPENWEATHER_API_KEY не задан"))
	}
	if c.UnsplashAccessKey == "" {
		errs = append(errs, errors.New("UNSPLASH_ACCESS_KEY не задан"))
	}
	return errors.Join(errs...)
}

func (c Config) Production() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration принимает Go duration ("90s") или просто секунды ("90").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
