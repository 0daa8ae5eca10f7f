package photos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gometeo/tripview/internal/config"
	"github.com/gometeo/tripview/internal/model"
)

// searchResponse - часть ответа Unsplash /search/photos, нужная галерее
type searchResponse struct {
	Results []struct {
		URLs struct {
			Small string `json:"small"`
		} `json:"urls"`
	} `json:"results"`
}

// Client ищет фото направлений в сервисе фото.
type Client struct {
	accessKey string
	baseURL   string
	client    *http.Client
	logger    *slog.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func NewClient(accessKey string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		accessKey: accessKey,
		baseURL:   config.DefaultPhotosBaseURL,
		client:    http.DefaultClient,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch возвращает до model.MaxPhotos URL для query. Без галереи поиск не
// падает, поэтому ошибка дает пустой набор.
func (c *Client) Fetch(ctx context.Context, query string) model.PhotoSet {
	set, err := c.Search(ctx, query)
	if err != nil {
		c.logger.Warn("Ошибка поиска фото", "query", query, "error", err)
		return model.PhotoSet{}
	}
	return set
}

// Search делает один запрос и сообщает причину ошибки.
func (c *Client) Search(ctx context.Context, query string) (model.PhotoSet, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("неверный базовый url фото: %w", err)
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(model.MaxPhotos))
	q.Set("client_id", c.accessKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ошибка api: %d %s", resp.StatusCode, string(body))
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("ошибка десериализации: %w", err)
	}

	set := make(model.PhotoSet, 0, model.MaxPhotos)
	for _, r := range data.Results {
		if len(set) == model.MaxPhotos {
			break
		}
		if r.URLs.Small == "" {
			continue
		}
		set = append(set, r.URLs.Small)
	}

	c.logger.Debug("Поиск фото завершен", "query", query, "count", len(set))
	return set, nil
}
