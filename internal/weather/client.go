package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gometeo/tripview/internal/config"
	"github.com/gometeo/tripview/internal/model"
)

/*
	OpenWeather current weather responses
	200  Success
	401  Unauthorized (invalid API key)
	404  City not found
	429  Too many requests
*/

// currentResponse - часть ответа /data/2.5/weather, которую показывает страница
type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

var ErrMalformed = errors.New("некорректный ответ погоды")

// StatusError возвращается, когда сервис отвечает не 2xx.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ошибка weather api: %d %s", e.StatusCode, e.Body)
}

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: config.DefaultWeatherBaseURL,
		client:  http.DefaultClient,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch возвращает текущую погоду для city или nil, если ее не получить.
// Ошибки логируются здесь и не доходят до вызывающего.
func (c *Client) Fetch(ctx context.Context, city string) *model.WeatherResult {
	res, err := c.Lookup(ctx, city)
	if err != nil {
		c.logger.Error("Ошибка получения погоды", "city", city, "error", err)
		return nil
	}
	return res
}

// Lookup делает один запрос и сообщает причину ошибки.
func (c *Client) Lookup(ctx context.Context, city string) (*model.WeatherResult, error) {
	reqURL, err := c.buildURL(city)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Ответ сервиса погоды", "city", city, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var data currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("ошибка десериализации: %w", err)
	}

	return toResult(data, city)
}

func toResult(data currentResponse, city string) (*model.WeatherResult, error) {
	if data.Main.Temp == nil {
		return nil, fmt.Errorf("%w: нет main.temp", ErrMalformed)
	}
	if len(data.Weather) == 0 {
		return nil, fmt.Errorf("%w: нет погодных условий", ErrMalformed)
	}

	name := data.Name
	if name == "" {
		name = city
	}

	return &model.WeatherResult{
		Location:     name,
		TemperatureC: model.RoundTemperature(*data.Main.Temp),
		Description:  model.Capitalize(data.Weather[0].Description),
	}, nil
}

func (c *Client) buildURL(city string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("неверный базовый url погоды: %w", err)
	}
	q := u.Query()
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
